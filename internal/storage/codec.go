package storage

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Codec names accepted by NewCodec.
const (
	CodecYAML = "yaml"
	CodecCBOR = "cbor"
)

// Codec turns snapshot values into bytes and back.
type Codec interface {
	Name() string
	Extension() string
	Marshal(value any) ([]byte, error)
	Unmarshal(data []byte, value any) error
}

// NewCodec returns the codec registered under name. An empty name selects YAML.
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecYAML:
		return yamlCodec{}, nil
	case CodecCBOR:
		return newCBORCodec()
	default:
		return nil, fmt.Errorf("unknown snapshot codec %q", name)
	}
}

type yamlCodec struct{}

func (yamlCodec) Name() string      { return CodecYAML }
func (yamlCodec) Extension() string { return "yaml" }

func (yamlCodec) Marshal(value any) ([]byte, error) {
	return yaml.Marshal(value)
}

func (yamlCodec) Unmarshal(data []byte, value any) error {
	return yaml.Unmarshal(data, value)
}

// cborCodec encodes deterministically so equal snapshots produce equal bytes.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (Codec, error) {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsEmpty,
		Time:          cbor.TimeRFC3339Nano,
	}
	enc, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("create cbor encoder mode: %w", err)
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	dec, err := decOpts.DecMode()
	if err != nil {
		return nil, fmt.Errorf("create cbor decoder mode: %w", err)
	}
	return cborCodec{enc: enc, dec: dec}, nil
}

func (codec cborCodec) Name() string      { return CodecCBOR }
func (codec cborCodec) Extension() string { return "cbor" }

func (codec cborCodec) Marshal(value any) ([]byte, error) {
	return codec.enc.Marshal(value)
}

func (codec cborCodec) Unmarshal(data []byte, value any) error {
	return codec.dec.Unmarshal(data, value)
}
