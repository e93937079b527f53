package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/thomas-vilte/commithelper/internal/errors"
)

const (
	// ManifestFile is the project manifest that may embed the configuration.
	ManifestFile = "package.json"
	// ManifestKey is the manifest key holding the configuration object.
	ManifestKey = "commithelper"
	// LocalFile is the file written by `config init`.
	LocalFile = ".commithelper.json"

	// Scope override keys are type names and may contain dots.
	keyDelim = "::"
)

// legacyKeys maps the misspelled keys accepted by earlier releases to their current name.
var legacyKeys = map[string]string{
	"subjectSeperator": "subjectSeparator",
	"ticketSeperator":  "ticketSeparator",
}

// Locate returns dir/LocalFile when it exists, "" otherwise.
func Locate(dir string) string {
	path := filepath.Join(dir, LocalFile)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Load reads the configuration from an explicit file. JSON and YAML are
// selected by extension. An empty path looks for LocalFile in the working
// directory and then falls back to LoadManifest.
func Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.ErrConfigRead.WithError(err)
		}
		if path = Locate(wd); path == "" {
			return LoadManifest(wd)
		}
	}

	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, errors.ErrConfigRead.WithError(err).WithContext("path", path)
	}
	return decode(k)
}

// LoadManifest reads the ManifestKey object of dir/package.json. A missing
// manifest or key yields the defaults.
func LoadManifest(dir string) (*Config, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return decode(koanf.New(keyDelim))
		}
		return nil, errors.ErrConfigRead.WithError(err).WithContext("path", path)
	}

	manifest := koanf.New(keyDelim)
	if err := manifest.Load(rawbytes.Provider(data), json.Parser()); err != nil {
		return nil, errors.ErrConfigRead.WithError(err).WithContext("path", path)
	}
	return decode(manifest.Cut(ManifestKey))
}

// DecodeBytes decodes a JSON document.
func DecodeBytes(data []byte) (*Config, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(rawbytes.Provider(data), json.Parser()); err != nil {
		return nil, errors.ErrConfigDecode.WithError(err)
	}
	return decode(k)
}

// Decode applies an override map on top of the defaults.
func Decode(overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(confmap.Provider(overrides, ""), nil); err != nil {
		return nil, errors.ErrConfigDecode.WithError(err)
	}
	return decode(k)
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

func decode(k *koanf.Koanf) (*Config, error) {
	for legacy, current := range legacyKeys {
		if k.Exists(legacy) && !k.Exists(current) {
			if err := k.Set(current, k.Get(legacy)); err != nil {
				return nil, errors.ErrConfigDecode.WithError(err)
			}
		}
		k.Delete(legacy)
	}

	// null keeps the default
	for _, key := range k.Keys() {
		if k.Get(key) == nil {
			k.Delete(key)
		}
	}

	cfg := Defaults()
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       commitTypeHook,
			WeaklyTypedInput: false,
			ZeroFields:       true,
		},
	})
	if err != nil {
		return nil, errors.ErrConfigDecode.WithError(err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// commitTypeHook accepts the original `message` key as the type description.
func commitTypeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(CommitType{}) {
		return data, nil
	}
	raw, ok := data.(map[string]interface{})
	if !ok {
		return data, nil
	}
	if _, has := raw["description"]; has {
		return data, nil
	}
	msg, ok := raw["message"]
	if !ok {
		return data, nil
	}

	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k != "message" {
			out[k] = v
		}
	}
	out["description"] = msg
	return out, nil
}

// Describe renders the source a configuration was read from, for log lines.
func Describe(path string) string {
	if path != "" {
		return path
	}
	return fmt.Sprintf("%s#%s", ManifestFile, ManifestKey)
}
