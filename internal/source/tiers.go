package source

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/outreach-cli/internal/model"
)

// tierFile is the on-disk shape of a tier-order override.
type tierFile struct {
	Tiers []string `yaml:"tiers"`
}

// LoadTierOrder reads a tier-order override from a YAML file:
//
//	tiers:
//	  - official_website
//	  - linkedin
//
// Unknown tier names and duplicates are rejected so a bad override
// fails before any target is processed.
func LoadTierOrder(path string) ([]model.SourceTier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: read tier file %s", path)
	}

	var tf tierFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, eris.Wrapf(err, "source: parse tier file %s", path)
	}
	if len(tf.Tiers) == 0 {
		return nil, eris.Errorf("source: tier file %s lists no tiers", path)
	}

	known := make(map[model.SourceTier]bool, len(model.DefaultTierOrder()))
	for _, t := range model.DefaultTierOrder() {
		known[t] = true
	}

	seen := make(map[model.SourceTier]bool, len(tf.Tiers))
	order := make([]model.SourceTier, 0, len(tf.Tiers))
	for _, name := range tf.Tiers {
		tier := model.SourceTier(name)
		if !known[tier] {
			return nil, eris.Errorf("source: unknown tier %q in %s", name, path)
		}
		if seen[tier] {
			return nil, eris.Errorf("source: duplicate tier %q in %s", name, path)
		}
		seen[tier] = true
		order = append(order, tier)
	}
	return order, nil
}
