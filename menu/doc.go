// Package menu defines the restaurant menu domain: menus, their submenus and
// the dishes inside each submenu.
//
// Entities carry derived counters (SubmenusCount, DishesCount) that are always
// computed from live child rows by the Repository implementation. They are
// never settable through the create or update inputs.
//
// The Repository interface is the narrow contract the cache layer and the
// transport depend on. Implementations must report a missing target with an
// error matching ErrNotFound, a title collision with ErrConflict and bad input
// with a ValidationError.
package menu
