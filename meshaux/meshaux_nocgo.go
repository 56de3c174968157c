//go:build tinygo || !cgo

package meshaux

import (
	"errors"

	"github.com/soypat/gsweep"
	"github.com/soypat/gsweep/scene"
)

func ui(bld *gsweep.Builder, s *scene.Scene, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
