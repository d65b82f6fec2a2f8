package xmlser

// Element and attribute names of the wire format.
const (
	elemBean = "bean"
	elemItem = "item"

	attrType     = "type"
	attrMetaType = "metatype"
	attrKeyType  = "keytype"
	attrColType  = "coltype"
	attrKey      = "key"
	attrCol      = "col"
	attrCount    = "count"
	attrNull     = "null"
)
