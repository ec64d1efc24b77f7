package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"seqvault/internal/services"
)

// LoadFilesData reads a YAML document mapping original file basenames to
// flat annotation dictionaries. The annotations are attached verbatim to
// the matching file's registry record at commit time.
func LoadFilesData(path string) (map[string]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "import", "read files data", path, err)
	}

	var parsed map[string]map[string]any
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "import", "parse files data",
			fmt.Sprintf("%s must map file names to flat key/value dictionaries", path), err)
	}

	out := make(map[string]map[string]string, len(parsed))
	for name, fields := range parsed {
		entry := make(map[string]string, len(fields))
		for key, value := range fields {
			switch v := value.(type) {
			case string:
				entry[key] = v
			case bool, int, int64, float64:
				entry[key] = fmt.Sprint(v)
			default:
				return nil, services.Wrap(services.ErrConfiguration, "import", "parse files data",
					fmt.Sprintf("%s: annotation %q for %s must be a scalar", path, key, name), nil)
			}
		}
		out[name] = entry
	}
	return out, nil
}
