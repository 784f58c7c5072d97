//go:build !darwin || ios

package access

const platformConstraints Options = 0

var platformOptionNames []optionName
