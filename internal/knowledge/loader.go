package knowledge

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Load reads the catalog JSON from path. A missing or malformed file degrades
// to an empty catalog with a warning — the assistant must keep answering
// (with fallbacks) even when the knowledge source is broken.
func Load(path string) Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read knowledge catalog, using empty catalog", "path", path, "error", err)
		} else {
			slog.Warn("knowledge catalog not found, using empty catalog", "path", path)
		}
		return Catalog{}
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		slog.Warn("could not parse knowledge catalog, using empty catalog", "path", path, "error", err)
		return Catalog{}
	}
	return c
}
