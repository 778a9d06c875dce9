package bundle

import (
	"image"
	"testing"
	"unicode/utf16"

	"github.com/tanukisoft/unitypack/pkg/asset"
	"github.com/tanukisoft/unitypack/pkg/msbt"
	"github.com/tanukisoft/unitypack/pkg/texture"
)

func TestMessageBundleRoundTrip(t *testing.T) {
	archive := &msbt.MessageMap{}
	archive.Set("MID_HELLO", utf16.Encode([]rune("Hi there.\x00")))
	raw, err := archive.Serialize()
	if err != nil {
		t.Fatalf("serialize archive: %v", err)
	}

	b := &Bundle{entries: []Entry{
		{Path: testCAB, Assets: makeTextAssetFile("script", string(raw))},
	}}
	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("serialize bundle: %v", err)
	}

	mb, err := ParseMessages(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	msg := mb.Messages.Get("MID_HELLO")
	if msg == nil || msg.String() != "Hi there.\x00" {
		t.Fatalf("message missing or wrong: %+v", msg)
	}

	msg.SetString("Changed.\x00")
	edited, err := mb.Serialize()
	if err != nil {
		t.Fatalf("serialize edited: %v", err)
	}

	again, err := ParseMessages(edited)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := again.Messages.Get("MID_HELLO"); got == nil || got.String() != "Changed.\x00" {
		t.Errorf("edit not persisted: %+v", got)
	}
}

func TestTerrainBundle(t *testing.T) {
	f := &asset.File{
		Header: asset.Header{UnityVersion: "2020.3.18f1"},
		Types: []asset.TypeDescriptor{
			{ClassID: 114, ScriptID: asset.Hash{0x22}, TypeHash: asset.TerrainBehaviorHash},
		},
	}
	f.AddAsset(&asset.TerrainBehavior{
		MonoBehavior: asset.MonoBehavior{Enabled: 1, Name: "hill"},
		Data:         asset.TerrainData{X: -2, Z: 3, Width: 16, Height: 16},
	}, 5)
	b := &Bundle{entries: []Entry{{Path: testCAB, Assets: f}}}

	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	tb, err := ParseTerrain(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	terrain, err := tb.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if terrain.Name != "hill" || terrain.Data.Width != 16 || terrain.Data.X != -2 {
		t.Errorf("terrain mismatch: %+v", terrain)
	}

	edited := *terrain
	edited.Data.Width = 32
	if err := tb.Replace(edited); err != nil {
		t.Fatalf("replace: %v", err)
	}
	reserialized, err := tb.Serialize()
	if err != nil {
		t.Fatalf("serialize edited: %v", err)
	}
	again, err := ParseTerrain(reserialized)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	got, err := again.Data()
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	if got.Data.Width != 32 {
		t.Errorf("edit not persisted: %+v", got.Data)
	}
}

func TestAtlasBundle(t *testing.T) {
	key := asset.RenderDataKey{GUID: asset.Hash{0xAA}, Second: 1}

	f := &asset.File{
		Header: asset.Header{UnityVersion: "2020.3.18f1"},
		Types: []asset.TypeDescriptor{
			{ClassID: 28, TypeHash: asset.Texture2DHash},
			{ClassID: 687078895, TypeHash: asset.SpriteAtlasHash},
			{ClassID: 213, TypeHash: asset.SpriteHash},
		},
	}
	f.AddAsset(&asset.Texture2D{
		Name:          "atlas0",
		Width:         4,
		Height:        4,
		TextureFormat: texture.R8,
		ImageCount:    1,
	}, 7)
	f.AddAsset(&asset.SpriteAtlas{
		Name: "atlas",
		RenderDataMap: []asset.RenderDataEntry{{
			Key: key,
			Data: asset.SpriteAtlasData{
				Texture:     asset.PPtr{PathID: 7},
				TextureRect: asset.RectF{X: 1, Y: 1, W: 2, H: 2},
			},
		}},
	}, 8)
	f.AddAsset(&asset.Sprite{Name: "icon", RenderDataKey: key}, 9)

	// 4x4 R8 gradient, stored bottom-up: byte value = row*4 + column.
	blob := make([]byte, 16)
	for i := range blob {
		blob[i] = byte(i)
	}
	b := &Bundle{entries: []Entry{
		{Path: testCAB, Assets: f},
		{Path: testCAB + ".resS", Raw: blob},
	}}
	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	ab, err := ParseAtlas(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	atlas, err := ab.ExtractAtlas()
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	t.Run("TexturesKeyedByPathID", func(t *testing.T) {
		if _, ok := atlas.Textures[7]; !ok {
			t.Fatalf("texture missing, have %v", atlas.Textures)
		}
	})

	t.Run("SpriteCropAndFlip", func(t *testing.T) {
		img, ok := atlas.Sprite("icon")
		if !ok {
			t.Fatal("sprite not found")
		}
		bounds := img.Bounds()
		if bounds.Dx() != 2 || bounds.Dy() != 2 {
			t.Fatalf("unexpected sprite size %v", bounds)
		}
		// The rect addresses stored (bottom-up) rows; after the flip the
		// stored row 2 pixel lands on top.
		nrgba := img.(*image.NRGBA)
		if got := nrgba.NRGBAAt(0, 0).R; got != 9 {
			t.Errorf("expected 9 at top-left, got %d", got)
		}
		if got := nrgba.NRGBAAt(0, 1).R; got != 5 {
			t.Errorf("expected 5 at bottom-left, got %d", got)
		}
	})

	t.Run("UnknownSprite", func(t *testing.T) {
		if _, ok := atlas.Sprite("missing"); ok {
			t.Error("expected miss for unknown sprite")
		}
	})
}
