// Package printing contains the ticket printing domain.
// It defines the print request accepted from the UI shell, the printing
// strategies that can serve it, the line layout metrics used by the
// rasterizer and the error taxonomy reported back to the caller.
package printing
