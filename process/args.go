package process

import (
	"gopkg.in/yaml.v2"

	strongmotion "github.com/smcore/go-strongmotion"
)

// decodeArgs re-marshals a step's generic args map through YAML and
// decodes it into a typed struct, the same round-trip config.Load uses
// to turn a merged map into a typed Config — one decoding idiom for
// every untyped map this module carries.
func decodeArgs(args map[string]any, out any) error {
	if args == nil {
		return nil
	}
	data, err := yaml.Marshal(args)
	if err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "process.decodeArgs", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return strongmotion.NewClassifiedError(strongmotion.ClassConfig, "process.decodeArgs", err)
	}
	return nil
}
