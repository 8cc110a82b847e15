package stack

// Static stack ids. Dynamic stacks use ids from FirstDynamicStackID up.
const (
	HomeStackID                = 0
	FullscreenWorkspaceStackID = 1
	FreeformWorkspaceStackID   = 2
	DockedStackID              = 3
	PinnedStackID              = 4
	FirstDynamicStackID        = 5
)

// IsStaticStack reports whether id names one of the well-known stacks.
func IsStaticStack(id int) bool {
	return id >= HomeStackID && id <= PinnedStackID
}

// ResizeableByDocked reports whether a stack with this id gives up screen
// space when a docked stack is present. The docked stack itself and the
// pinned stack keep their own geometry.
func ResizeableByDocked(id int) bool {
	return IsStaticStack(id) && id != DockedStackID && id != PinnedStackID
}

// AllowedOverLockscreen reports whether the stack may stay visible while
// the keyguard is showing.
func AllowedOverLockscreen(id int) bool {
	return id == HomeStackID || id == FullscreenWorkspaceStackID
}
