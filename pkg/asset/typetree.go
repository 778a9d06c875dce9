package asset

import (
	"fmt"
	"strings"

	"github.com/tanukisoft/unitypack/pkg/stream"
)

// TypeTreeNode is one field of a type's embedded schema description.
type TypeTreeNode struct {
	NodeVersion   uint16
	Level         uint8
	TypeFlags     uint8
	TypeStrOffset uint32
	NameStrOffset uint32
	ByteSize      int32
	Index         int32
	MetaFlag      int32
	RefTypeHash   uint64
}

func (n *TypeTreeNode) read(d *dec) {
	n.NodeVersion = d.u16()
	n.Level = d.u8()
	n.TypeFlags = d.u8()
	n.TypeStrOffset = d.u32()
	n.NameStrOffset = d.u32()
	n.ByteSize = d.i32()
	n.Index = d.i32()
	n.MetaFlag = d.i32()
	n.RefTypeHash = d.u64()
}

func (n *TypeTreeNode) write(w *stream.Writer) {
	w.U16(n.NodeVersion)
	w.U8(n.Level)
	w.U8(n.TypeFlags)
	w.U32(n.TypeStrOffset)
	w.U32(n.NameStrOffset)
	w.I32(n.ByteSize)
	w.I32(n.Index)
	w.I32(n.MetaFlag)
	w.U64(n.RefTypeHash)
}

// TypeTree is a type's full schema: a flattened node hierarchy plus a local
// string buffer. Node string offsets with the high bit set index a built-in
// table shared by all files; others index the local buffer.
type TypeTree struct {
	Nodes     []TypeTreeNode
	StrBuffer []byte
}

func (t *TypeTree) read(d *dec) {
	nodeCount := d.u32()
	strBufferSize := d.u32()
	if d.err != nil {
		return
	}
	t.Nodes = make([]TypeTreeNode, 0, capHint(int(nodeCount), d.r.Remaining()))
	for i := uint32(0); i < nodeCount && d.err == nil; i++ {
		var n TypeTreeNode
		n.read(d)
		t.Nodes = append(t.Nodes, n)
	}
	if d.err != nil {
		return
	}
	buf, err := d.r.Bytes(int(strBufferSize))
	if err != nil {
		d.err = err
		return
	}
	t.StrBuffer = buf
}

func (t *TypeTree) write(w *stream.Writer) {
	w.U32(uint32(len(t.Nodes)))
	w.U32(uint32(len(t.StrBuffer)))
	for i := range t.Nodes {
		t.Nodes[i].write(w)
	}
	w.Write(t.StrBuffer)
}

// StringAt resolves a node string offset: high-bit offsets index the built-in
// table, the rest index this tree's local buffer as null-terminated strings.
func (t *TypeTree) StringAt(offset uint32) (string, error) {
	if offset&0x80000000 != 0 {
		value := offset & 0x7FFFFFFF
		s, ok := builtinStrings[value]
		if !ok {
			return "", fmt.Errorf("unknown built-in string offset %d", value)
		}
		return s, nil
	}
	if int(offset) > len(t.StrBuffer) {
		return "", fmt.Errorf("string offset %d is out of bounds for %d-byte buffer", offset, len(t.StrBuffer))
	}
	buf := t.StrBuffer[offset:]
	end := 0
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	if end == len(buf) {
		return "", fmt.Errorf("unterminated string at offset %d in type tree buffer", offset)
	}
	return string(buf[:end]), nil
}

// Dump renders the tree as indented "name: type" lines.
func (t *TypeTree) Dump() (string, error) {
	var b strings.Builder
	for i := range t.Nodes {
		n := &t.Nodes[i]
		name, err := t.StringAt(n.NameStrOffset)
		if err != nil {
			return "", err
		}
		typeName, err := t.StringAt(n.TypeStrOffset)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s%s: %s\n", strings.Repeat(" ", int(n.Level)*4), name, typeName)
	}
	return b.String(), nil
}

// builtinStrings is the global string table shared by every serialized file.
// The offsets match the engine's internal layout and must not be renumbered.
var builtinStrings = map[uint32]string{
	0:    "AABB",
	5:    "AnimationClip",
	19:   "AnimationCurve",
	34:   "AnimationState",
	49:   "Array",
	55:   "Base",
	60:   "BitField",
	69:   "bitset",
	76:   "bool",
	81:   "char",
	86:   "ColorRGBA",
	96:   "Component",
	106:  "data",
	111:  "deque",
	117:  "double",
	124:  "dynamic_array",
	138:  "FastPropertyName",
	155:  "first",
	161:  "float",
	167:  "Font",
	172:  "GameObject",
	183:  "Generic Mono",
	196:  "GradientNEW",
	208:  "GUID",
	213:  "GUIStyle",
	222:  "int",
	226:  "list",
	231:  "long long",
	241:  "map",
	245:  "Matrix4x4f",
	256:  "MdFour",
	263:  "MonoBehaviour",
	277:  "MonoScript",
	288:  "m_ByteSize",
	299:  "m_Curve",
	307:  "m_EditorClassIdentifier",
	331:  "m_EditorHideFlags",
	349:  "m_Enabled",
	359:  "m_ExtensionPtr",
	374:  "m_GameObject",
	387:  "m_Index",
	395:  "m_IsArray",
	405:  "m_IsStatic",
	416:  "m_MetaFlag",
	427:  "m_Name",
	434:  "m_ObjectHideFlags",
	452:  "m_PrefabInternal",
	469:  "m_PrefabParentObject",
	490:  "m_Script",
	499:  "m_StaticEditorFlags",
	519:  "m_Type",
	526:  "m_Version",
	536:  "Object",
	543:  "pair",
	548:  "PPtr<Component>",
	564:  "PPtr<GameObject>",
	581:  "PPtr<Material>",
	596:  "PPtr<MonoBehaviour>",
	616:  "PPtr<MonoScript>",
	633:  "PPtr<Object>",
	646:  "PPtr<Prefab>",
	659:  "PPtr<Sprite>",
	672:  "PPtr<TextAsset>",
	688:  "PPtr<Texture>",
	702:  "PPtr<Texture2D>",
	718:  "PPtr<Transform>",
	734:  "Prefab",
	741:  "Quaternionf",
	753:  "Rectf",
	759:  "RectInt",
	767:  "RectOffset",
	778:  "second",
	785:  "set",
	789:  "short",
	795:  "size",
	800:  "SInt16",
	807:  "SInt32",
	814:  "SInt64",
	821:  "SInt8",
	827:  "staticvector",
	840:  "string",
	847:  "TextAsset",
	857:  "TextMesh",
	866:  "Texture",
	874:  "Texture2D",
	884:  "Transform",
	894:  "TypelessData",
	907:  "UInt16",
	914:  "UInt32",
	921:  "UInt64",
	928:  "UInt8",
	934:  "unsigned int",
	947:  "unsigned long long",
	966:  "unsigned short",
	981:  "vector",
	988:  "Vector2f",
	997:  "Vector3f",
	1006: "Vector4f",
	1015: "m_ScriptingClassIdentifier",
	1042: "Gradient",
	1051: "Type*",
	1057: "int2_storage",
	1070: "int3_storage",
	1083: "BoundsInt",
	1093: "m_CorrespondingSourceObject",
	1121: "m_PrefabInstance",
	1138: "m_PrefabAsset",
	1152: "FileSize",
	1161: "Hash128",
}
