package asset

import (
	"encoding/hex"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

// Hash is a 128-bit structural type fingerprint, stored in the byte order it
// appears in the file. Every record schema is identified by one of these;
// the values are externally defined format constants, not computed.
type Hash [16]byte

// String returns the hash as lowercase hex.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func readHash(r *stream.Reader) (Hash, error) {
	var h Hash
	b, err := r.Bytes(16)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) write(w *stream.Writer) {
	w.Write(h[:])
}

// Structural type hashes for every record kind this package can decode.
var (
	AssetBundleHash         = Hash{0x97, 0xda, 0x5f, 0x46, 0x88, 0xe4, 0x5a, 0x57, 0xc8, 0xb4, 0x2d, 0x4f, 0x42, 0x49, 0x72, 0x97}
	TextAssetHash           = Hash{0x48, 0x6b, 0xa4, 0xe1, 0x5d, 0xbd, 0x6a, 0xea, 0x8a, 0xc1, 0xa0, 0x64, 0x30, 0x58, 0x89, 0xc8}
	MeshHash                = Hash{0xb5, 0x51, 0x6d, 0xd9, 0xb9, 0xd6, 0xb7, 0xd5, 0x64, 0x3b, 0x75, 0xdf, 0x18, 0x47, 0xc5, 0xc9}
	AvatarHash              = Hash{0x06, 0xfc, 0x11, 0x7c, 0xa6, 0xd9, 0x65, 0x14, 0x0c, 0xcc, 0x18, 0xca, 0x84, 0x0c, 0xc1, 0xa1}
	MaterialHash            = Hash{0x63, 0xd8, 0x61, 0xfd, 0x9f, 0x99, 0x9c, 0x93, 0xd6, 0x1f, 0xe5, 0x65, 0x91, 0x62, 0x06, 0x1d}
	TransformHash           = Hash{0x76, 0x1c, 0xa8, 0x1f, 0x78, 0x49, 0x15, 0x42, 0xba, 0xdc, 0x37, 0xf8, 0x10, 0xab, 0x34, 0x55}
	GameObjectHash          = Hash{0x86, 0xe3, 0x4e, 0xb8, 0xee, 0x76, 0x42, 0xb0, 0x89, 0xfb, 0x98, 0xc9, 0xd8, 0x1d, 0xd9, 0xb0}
	SkinnedMeshRendererHash = Hash{0x26, 0x97, 0xe6, 0xf3, 0x89, 0x3b, 0xf1, 0x52, 0xcc, 0xfa, 0x67, 0x66, 0xc4, 0xc7, 0xf5, 0x05}
	AnimatorHash            = Hash{0x75, 0xf8, 0xb5, 0x58, 0x40, 0x1c, 0xf0, 0x1b, 0xa3, 0x6d, 0x0e, 0x61, 0x2c, 0xdb, 0xd8, 0xfa}
	EmptyBehaviorHash       = Hash{0x71, 0xbb, 0x6a, 0x6b, 0x6c, 0x8f, 0x05, 0x2f, 0x94, 0x8d, 0xb6, 0x4c, 0x7d, 0xd3, 0xca, 0x4f}
	SpringBoneBehaviorHash  = Hash{0x34, 0xb7, 0x64, 0x77, 0x9d, 0x43, 0x1d, 0xec, 0xc9, 0xe0, 0xf7, 0x3a, 0x48, 0xfe, 0x12, 0x41}
	SpringJobBehaviorHash   = Hash{0xbf, 0x95, 0x42, 0x69, 0x1a, 0xf4, 0xec, 0xd6, 0xe4, 0x7f, 0x6b, 0x85, 0x65, 0x8c, 0xb8, 0x89}
	MonoScriptHash          = Hash{0xf4, 0x6e, 0x8e, 0x30, 0xec, 0xc2, 0x93, 0x49, 0x3f, 0x18, 0xab, 0x27, 0x13, 0x42, 0x10, 0xee}
	Texture2DHash           = Hash{0x0d, 0x08, 0x41, 0x4c, 0xfd, 0x5b, 0xdb, 0x0d, 0x22, 0x79, 0x20, 0x11, 0xbd, 0xa9, 0xab, 0x26}
	SpriteHash              = Hash{0x8c, 0x8a, 0xa5, 0x45, 0xa0, 0x3e, 0xde, 0xb9, 0x03, 0x0f, 0x8f, 0x50, 0x42, 0xd0, 0x61, 0x22}
	SpriteAtlasHash         = Hash{0xca, 0xe7, 0x9c, 0x57, 0xc5, 0x8b, 0xb3, 0xa3, 0x31, 0xc1, 0xa3, 0xa7, 0x8f, 0xf9, 0xcf, 0xef}
	TerrainBehaviorHash     = Hash{0x71, 0xb1, 0xe8, 0x94, 0x83, 0x9c, 0xce, 0x70, 0x92, 0x7e, 0xe8, 0xe7, 0x79, 0xb4, 0xbd, 0x79}
)
