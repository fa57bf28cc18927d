// Package components defines the value types shared by the field,
// particle and rendering packages: screen vectors, rectangles and
// geographic points and boxes.
package components
