// Package nav holds the navigation state of the storefront: the responsive
// layout state machine and the routing surface.
//
// The layout mode is a pure function of the viewport width ([LayoutMode]);
// [Layout] adds the mobile sidebar and user dropdown on top of it:
//
//	Desktop                     Mobile
//	  dropdown None|UserMenu      sidebar Closed|Open
//	                              dropdown None|UserMenu
//
// Entering Desktop forces the sidebar closed. A pointer action outside the
// open sidebar closes both the sidebar and the dropdown.
package nav
