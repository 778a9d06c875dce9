package asset

import (
	"fmt"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

// Asset is one decoded object record from an asset file. The variant set is
// closed: every implementation lives in this package and corresponds 1:1 to
// a structural type hash. Records whose hash is not in the catalog decode to
// *Unparsed, which preserves the raw bytes for write-back.
type Asset interface {
	// TypeHash returns the structural type hash identifying this record's
	// schema. It is the inverse of the decode dispatch table and must stay
	// bijective with it.
	TypeHash() Hash

	read(d *dec)
	write(w *stream.Writer)
}

// recordTypes maps each known structural type hash to a constructor for the
// matching record. Adding a record kind means adding it here and giving the
// type a TypeHash method returning the same constant; the two directions
// must agree or write-back corrupts the type table mapping.
var recordTypes = map[Hash]func() Asset{
	AssetBundleHash:         func() Asset { return new(AssetBundle) },
	TextAssetHash:           func() Asset { return new(TextAsset) },
	MonoScriptHash:          func() Asset { return new(MonoScript) },
	GameObjectHash:          func() Asset { return new(GameObject) },
	TransformHash:           func() Asset { return new(Transform) },
	AnimatorHash:            func() Asset { return new(Animator) },
	MeshHash:                func() Asset { return new(Mesh) },
	AvatarHash:              func() Asset { return new(Avatar) },
	MaterialHash:            func() Asset { return new(Material) },
	SkinnedMeshRendererHash: func() Asset { return new(SkinnedMeshRenderer) },
	Texture2DHash:           func() Asset { return new(Texture2D) },
	SpriteHash:              func() Asset { return new(Sprite) },
	SpriteAtlasHash:         func() Asset { return new(SpriteAtlas) },
	EmptyBehaviorHash:       func() Asset { return new(EmptyBehavior) },
	TerrainBehaviorHash:     func() Asset { return new(TerrainBehavior) },
	SpringJobBehaviorHash:   func() Asset { return new(SpringJobBehavior) },
	SpringBoneBehaviorHash:  func() Asset { return new(SpringBoneBehavior) },
}

// decodeAsset decodes one object record at the reader's position. Known
// hashes dispatch to the matching record codec. Any other hash consumes
// exactly size bytes into an Unparsed record; the size comes from the object
// table because unparsed records carry no self-describing length.
func decodeAsset(r *stream.Reader, hash Hash, size uint32, pathID uint64) (Asset, error) {
	if construct, ok := recordTypes[hash]; ok {
		record := construct()
		d := &dec{r: r}
		record.read(d)
		if d.err != nil {
			return nil, fmt.Errorf("decoding %T (path id %d): %w", record, pathID, d.err)
		}
		return record, nil
	}
	data, err := r.Bytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("reading %d raw bytes for unknown type %s (path id %d): %w", size, hash, pathID, err)
	}
	return &Unparsed{Type: hash, PathID: pathID, Data: data}, nil
}

// Unparsed is the universal fallback record: an object whose type hash has
// no codec in the catalog. It carries the original hash, the object's stable
// id, and the raw byte span so write-back is byte-exact without the record
// being understood.
type Unparsed struct {
	Type   Hash
	PathID uint64
	Data   []byte
}

// TypeHash returns the original structural type hash.
func (u *Unparsed) TypeHash() Hash {
	return u.Type
}

func (u *Unparsed) read(d *dec) {
	// Unparsed records are constructed by decodeAsset with an explicit size;
	// they cannot be decoded through the catalog path.
	d.err = fmt.Errorf("unparsed record has no self-describing length")
}

func (u *Unparsed) write(w *stream.Writer) {
	w.Write(u.Data)
}
