// Package webui holds the HTML views of the file manager: index, login,
// register, and the main browsing page, rendered from embedded templates
// and registered on a gateway.App.
package webui
