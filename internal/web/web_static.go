package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFiles embed.FS

// staticAssets is rooted at static/ so request paths map 1:1 to file names
var staticAssets = mustSub(staticFiles, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// staticAssetNames lists the embedded assets
func staticAssetNames() []string {
	var names []string
	_ = fs.WalkDir(staticAssets, ".", func(name string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, name)
		}
		return err
	})
	return names
}

// staticFile serves /static/*filepath. Directories are not listed.
func (s *WebServer) staticFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	if st, err := fs.Stat(staticAssets, name); name == "" || err != nil || st.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.FileFromFS(name, http.FS(staticAssets))
}
