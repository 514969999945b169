package app

import (
	"github.com/makex-dev/makex/internal/registry"
	"github.com/makex-dev/makex/modules/cleanfiles"
	"github.com/makex-dev/makex/modules/execstep"
	"github.com/makex-dev/makex/modules/fanout"
	"github.com/makex-dev/makex/modules/githooks"
	"github.com/makex-dev/makex/modules/printmsg"
	"github.com/makex-dev/makex/modules/release"
)

// coreModules is the definitive list of handler modules compiled into the
// makex binary.
var coreModules = []registry.Module{
	&execstep.Module{},
	&fanout.Module{},
	&cleanfiles.Module{},
	&githooks.Module{},
	&printmsg.Module{},
	&release.Module{},
}
