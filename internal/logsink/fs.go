package logsink

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// MakeModuleDirs creates <base>/<module>/<DD.MM.YYYY>/<module>_<HH-MM-SS> for one run.
func MakeModuleDirs(base, module string) (string, error) {
	now := time.Now()
	date := now.Format("02.01.2006")
	name := module + "_" + now.Format("15-04-05")

	dir := filepath.Join(base, module, date, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "mkdir %q", dir)
	}
	return dir, nil
}
