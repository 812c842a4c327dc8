// Package template defines the template rendering contract shared by the
// HTML results renderer and the web front-end page.
package template
