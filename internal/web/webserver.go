// Package web provides the HTTP server and web interface for go-postboard
package web

/*

	### **Core Files:**
	1. **`webserver_core_routes.go`** - Server setup, middleware and route configuration
	2. **`web_utils.go`** - Base template data, error mapping and rendering helpers
	3. **`web_render.go`** - Embedded templates and the pure page renderers
	4. **`web_static.go`** - Embedded static assets

	### **Page Handler Files:**
	5. **`web_postsPage.go`** - Posts view: loader + render (GET) and action (POST)
	6. **`web_helloPage.go`** - Static hello view with the build time domain

	### **API File:**
	7. **`web_apiHandlers.go`** - JSON endpoints for the posts collection

*/
