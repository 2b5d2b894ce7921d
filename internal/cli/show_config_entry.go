package greenview

import (
	"io"

	"github.com/mwiater/greenview/internal/appconfig"
)

func runShowConfig(out io.Writer, raw bool) {
	cfg := GetConfig()
	if cfg == nil {
		defaults := appconfig.Defaults()
		cfg = &defaults
	}
	if raw {
		appconfig.ShowConfigRaw(out, *cfg)
		return
	}
	appconfig.ShowConfig(out, *cfg)
}
