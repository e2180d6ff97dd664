// Package controller holds the decision logic behind the bill list and new
// bill pages. The hosting view layer wires its events to these methods.
package controller

// Navigator moves the user to another page
type Navigator func(path string)

const (
	RouteBills   = "/bills"
	RouteNewBill = "/bills/new"
)

func (n Navigator) to(path string) {
	if n != nil {
		n(path)
	}
}
