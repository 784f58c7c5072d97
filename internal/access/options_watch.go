//go:build darwin && !ios

package access

// Watch allows a paired Apple Watch to satisfy the constraint.
// Only macOS supports it; other targets do not define this constant.
const Watch Options = 1 << 5

const platformConstraints = Watch

var platformOptionNames = []optionName{{Watch, "watch"}}
