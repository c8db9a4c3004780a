package column

// Payload is the raw data carried by a wire column. The set of
// implementations is closed.
type Payload interface {
	// Kind identifies the payload variant.
	Kind() PayloadKind
	// Len returns the number of top-level entries.
	Len() int

	sealed()
}

// PayloadKind identifies a Payload variant.
type PayloadKind uint8

const (
	KindBool PayloadKind = iota + 1
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindBlobs
	KindList
	KindStruct
)

// String returns the string representation of the PayloadKind.
func (k PayloadKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindBlobs:
		return "blobs"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

type (
	// BoolData carries Bool values.
	BoolData []bool
	// IntData carries Int8, Int16 and Int32 values widened to 32 bits.
	IntData []int32
	// LongData carries Int64 values.
	LongData []int64
	// FloatData carries Float values and flattened float vectors.
	FloatData []float32
	// DoubleData carries Double values.
	DoubleData []float64
	// StringData carries String, VarChar and Geometry values.
	StringData []string
	// ByteData is one contiguous byte blob holding fixed-width byte vectors.
	ByteData []byte
	// BlobData is one byte blob per row: JSON documents and sparse vectors.
	BlobData [][]byte
	// ListData is one sub-payload per row: array elements, or the elements
	// of a struct array sub-field.
	ListData []Payload
	// StructData holds the sibling sub-field columns of a struct array.
	StructData []*Column
)

func (BoolData) Kind() PayloadKind   { return KindBool }
func (IntData) Kind() PayloadKind    { return KindInt }
func (LongData) Kind() PayloadKind   { return KindLong }
func (FloatData) Kind() PayloadKind  { return KindFloat }
func (DoubleData) Kind() PayloadKind { return KindDouble }
func (StringData) Kind() PayloadKind { return KindString }
func (ByteData) Kind() PayloadKind   { return KindBytes }
func (BlobData) Kind() PayloadKind   { return KindBlobs }
func (ListData) Kind() PayloadKind   { return KindList }
func (StructData) Kind() PayloadKind { return KindStruct }

func (p BoolData) Len() int   { return len(p) }
func (p IntData) Len() int    { return len(p) }
func (p LongData) Len() int   { return len(p) }
func (p FloatData) Len() int  { return len(p) }
func (p DoubleData) Len() int { return len(p) }
func (p StringData) Len() int { return len(p) }
func (p ByteData) Len() int   { return len(p) }
func (p BlobData) Len() int   { return len(p) }
func (p ListData) Len() int   { return len(p) }
func (p StructData) Len() int { return len(p) }

func (BoolData) sealed()   {}
func (IntData) sealed()    {}
func (LongData) sealed()   {}
func (FloatData) sealed()  {}
func (DoubleData) sealed() {}
func (StringData) sealed() {}
func (ByteData) sealed()   {}
func (BlobData) sealed()   {}
func (ListData) sealed()   {}
func (StructData) sealed() {}
