package format

// Precision and dimension defaults. A header field equal to its default is
// omitted from the wire.
const (
	DefaultPrecision  = 6
	MaxPrecision      = 15
	DefaultDimensions = 2
	MaxDimensions     = 3
)

// Data message fields.
const (
	DataKeys              = 1
	DataDimensions        = 2
	DataPrecision         = 3
	DataFeatureCollection = 4
	DataFeature           = 5
	DataGeometry          = 6
)

// Feature message fields.
const (
	FeatureGeometry         = 1
	FeatureID               = 11
	FeatureIntID            = 12
	FeatureValues           = 13
	FeatureProperties       = 14
	FeatureCustomProperties = 15
)

// Geometry message fields. GeometryDimensions is an extension carried only
// when a geometry's dimension differs from the document's.
const (
	GeometryKind             = 1
	GeometryLengths          = 2
	GeometryCoords           = 3
	GeometryGeometries       = 4
	GeometryDimensions       = 5
	GeometryValues           = 13
	GeometryCustomProperties = 15
)

// FeatureCollection message fields.
const (
	CollectionFeatures         = 1
	CollectionValues           = 13
	CollectionCustomProperties = 15
)

// Value message fields. ValueBytes is an extension for raw byte strings.
const (
	ValueString = 1
	ValueDouble = 2
	ValuePosInt = 3
	ValueNegInt = 4
	ValueBool   = 5
	ValueJSON   = 6
	ValueBytes  = 7
)
