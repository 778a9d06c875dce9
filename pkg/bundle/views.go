package bundle

import (
	"fmt"
	"image"
	"math"

	"github.com/tanukisoft/unitypack/pkg/asset"
	"github.com/tanukisoft/unitypack/pkg/msbt"
	"github.com/tanukisoft/unitypack/pkg/stream"
	"github.com/tanukisoft/unitypack/pkg/texture"
)

// TextBundle views a bundle that carries a single text asset.
type TextBundle struct {
	*Bundle
}

// ParseText decodes a bundle and wraps it as a text bundle. The text asset
// is looked up lazily, so a bundle without one parses fine but fails on the
// accessors.
func ParseText(data []byte) (*TextBundle, error) {
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &TextBundle{Bundle: b}, nil
}

func (t *TextBundle) textAsset() (*asset.TextAsset, error) {
	for i := range t.entries {
		file := t.entries[i].Assets
		if file == nil {
			continue
		}
		for _, a := range file.Assets {
			if text, ok := a.(*asset.TextAsset); ok {
				return text, nil
			}
		}
	}
	return nil, fmt.Errorf("bundle does not contain any text assets")
}

// AssetName returns the name of the bundle's text asset.
func (t *TextBundle) AssetName() (string, error) {
	text, err := t.textAsset()
	if err != nil {
		return "", err
	}
	return text.Name, nil
}

// Raw returns the text asset's payload bytes.
func (t *TextBundle) Raw() ([]byte, error) {
	text, err := t.textAsset()
	if err != nil {
		return nil, err
	}
	return text.Data, nil
}

// Text returns the text asset's payload decoded as UTF-8 with any byte
// order mark removed.
func (t *TextBundle) Text() (string, error) {
	raw, err := t.Raw()
	if err != nil {
		return "", err
	}
	return stream.DecodeUTF8(raw), nil
}

// ReplaceRaw swaps the text asset's payload.
func (t *TextBundle) ReplaceRaw(data []byte) error {
	text, err := t.textAsset()
	if err != nil {
		return err
	}
	text.Data = data
	return nil
}

// ReplaceText swaps the text asset's payload with the UTF-8 bytes of s.
func (t *TextBundle) ReplaceText(s string) error {
	return t.ReplaceRaw([]byte(s))
}

// TerrainBundle views a bundle that carries terrain behavior data.
type TerrainBundle struct {
	*Bundle
}

// ParseTerrain decodes a bundle and wraps it as a terrain bundle.
func ParseTerrain(data []byte) (*TerrainBundle, error) {
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &TerrainBundle{Bundle: b}, nil
}

func (t *TerrainBundle) terrainAsset() (*asset.TerrainBehavior, error) {
	for i := range t.entries {
		file := t.entries[i].Assets
		if file == nil {
			continue
		}
		for _, a := range file.Assets {
			if terrain, ok := a.(*asset.TerrainBehavior); ok {
				return terrain, nil
			}
		}
	}
	return nil, fmt.Errorf("bundle does not contain any terrain assets")
}

// Data returns the bundle's terrain behavior.
func (t *TerrainBundle) Data() (*asset.TerrainBehavior, error) {
	return t.terrainAsset()
}

// Replace swaps the bundle's terrain behavior.
func (t *TerrainBundle) Replace(data asset.TerrainBehavior) error {
	terrain, err := t.terrainAsset()
	if err != nil {
		return err
	}
	*terrain = data
	return nil
}

// MessageBundle views a text bundle whose payload is an MSBT message
// archive. Messages holds the decoded archive; edits to it are folded back
// into the text asset on serialize.
type MessageBundle struct {
	*TextBundle
	Messages *msbt.MessageMap
}

// ParseMessages decodes a bundle and the MSBT archive inside its text asset.
func ParseMessages(data []byte) (*MessageBundle, error) {
	tb, err := ParseText(data)
	if err != nil {
		return nil, err
	}
	raw, err := tb.Raw()
	if err != nil {
		return nil, err
	}
	messages, err := msbt.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MessageBundle{TextBundle: tb, Messages: messages}, nil
}

// Serialize re-encodes the message archive into the text asset, then the
// bundle around it.
func (m *MessageBundle) Serialize() ([]byte, error) {
	return m.SerializeCompressed(CompressionNone)
}

// SerializeCompressed is Serialize with block compression.
func (m *MessageBundle) SerializeCompressed(kind Compression) ([]byte, error) {
	raw, err := m.Messages.Serialize()
	if err != nil {
		return nil, err
	}
	if err := m.ReplaceRaw(raw); err != nil {
		return nil, err
	}
	return m.Bundle.SerializeCompressed(kind)
}

// AtlasBundle views a bundle holding a sprite atlas: an asset file with the
// atlas, sprite, and texture records, plus a resource entry with the raw
// texture bytes.
type AtlasBundle struct {
	*Bundle
}

// ParseAtlas decodes a bundle and wraps it as an atlas bundle.
func ParseAtlas(data []byte) (*AtlasBundle, error) {
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &AtlasBundle{Bundle: b}, nil
}

// Atlas is a decoded sprite atlas: textures keyed by object path id, and
// sprites keyed by name.
type Atlas struct {
	Textures map[uint64]image.Image

	atlas   *asset.SpriteAtlas
	sprites map[string]*asset.Sprite
}

// ExtractAtlas decodes the atlas's textures and indexes its sprites. The
// asset file and its resource blob are the bundle's last two entries.
func (a *AtlasBundle) ExtractAtlas() (*Atlas, error) {
	if len(a.entries) < 2 {
		return nil, fmt.Errorf("could not identify asset and texture files in bundle")
	}
	resource := a.entries[len(a.entries)-1]
	assets := a.entries[len(a.entries)-2]
	if assets.Assets == nil || resource.Raw == nil {
		return nil, fmt.Errorf("could not identify asset and texture files in bundle")
	}

	out := &Atlas{
		Textures: make(map[uint64]image.Image),
		sprites:  make(map[string]*asset.Sprite),
	}
	// Texture records appear in decode order, each claiming the next
	// width*height bytes of the resource blob.
	offset := 0
	for i, rec := range assets.Assets.Assets {
		switch v := rec.(type) {
		case *asset.Texture2D:
			img, err := decodeAtlasTexture(v, resource.Raw, offset)
			if err != nil {
				return nil, fmt.Errorf("texture %q: %w", v.Name, err)
			}
			out.Textures[assets.Assets.PathID(i)] = img
			offset += int(v.Width) * int(v.Height)
		case *asset.SpriteAtlas:
			out.atlas = v
		case *asset.Sprite:
			out.sprites[v.Name] = v
		}
	}
	if out.atlas == nil {
		return nil, fmt.Errorf("could not extract assets required to build sprite atlas")
	}
	return out, nil
}

func decodeAtlasTexture(t *asset.Texture2D, blob []byte, offset int) (image.Image, error) {
	if offset > len(blob) {
		return nil, fmt.Errorf("texture data starts at %d, past the %d-byte resource blob", offset, len(blob))
	}
	return texture.Decode(t.TextureFormat, int(t.Width), int(t.Height), blob[offset:])
}

// SpriteNames lists the sprites in the atlas.
func (a *Atlas) SpriteNames() []string {
	names := make([]string, 0, len(a.sprites))
	for name := range a.sprites {
		names = append(names, name)
	}
	return names
}

// Sprite cuts one sprite out of its atlas texture. Textures store rows
// bottom-up, and the atlas rects address that storage directly, so the
// region is cropped first and flipped after.
func (a *Atlas) Sprite(name string) (image.Image, bool) {
	sprite, ok := a.sprites[name]
	if !ok {
		return nil, false
	}
	data := a.atlas.LookupRenderData(sprite.RenderDataKey)
	if data == nil {
		return nil, false
	}
	tex, ok := a.Textures[uint64(data.Texture.PathID)]
	if !ok {
		return nil, false
	}
	rect := data.TextureRect
	x, y := int(rect.X), int(rect.Y)
	w := int(math.Ceil(float64(rect.W)))
	h := int(math.Ceil(float64(rect.H)))
	return texture.FlipV(texture.Crop(tex, image.Rect(x, y, x+w, y+h))), true
}

// Sprites decodes every sprite in the atlas.
func (a *Atlas) Sprites() map[string]image.Image {
	out := make(map[string]image.Image, len(a.sprites))
	for name := range a.sprites {
		if img, ok := a.Sprite(name); ok {
			out[name] = img
		}
	}
	return out
}
