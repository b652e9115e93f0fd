package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry describes one converted file in the output manifest.
type ManifestEntry struct {
	Source   string `json:"source"`
	Mesh     string `json:"mesh"`
	Preview  string `json:"preview,omitempty"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Replaced int    `json:"replaced_values,omitempty"`
}

// WriteManifest writes manifest.json describing every successful conversion.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Source:   r.Source,
			Mesh:     r.Mesh,
			Preview:  r.Preview,
			Rows:     r.Rows,
			Cols:     r.Cols,
			Replaced: r.Replaced,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
