//go:build tinygo || !cgo

package gwireaux

import "errors"

func ui(st *State, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
