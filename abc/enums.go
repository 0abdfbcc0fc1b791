package abc

// ConstantKind identifies which constant pool an optional value or trait
// default value is drawn from.
type ConstantKind uint8

const (
	ConstantUndefined      ConstantKind = 0x00
	ConstantInt            ConstantKind = 0x03
	ConstantUInt           ConstantKind = 0x04
	ConstantPrivateNs      ConstantKind = 0x05
	ConstantDouble         ConstantKind = 0x06
	ConstantQName          ConstantKind = 0x07
	ConstantUtf8           ConstantKind = 0x01
	ConstantTrue           ConstantKind = 0x0B
	ConstantFalse          ConstantKind = 0x0A
	ConstantNull           ConstantKind = 0x0C
	ConstantNamespace      ConstantKind = 0x08
	ConstantPackageNs      ConstantKind = 0x16
	ConstantPackageInterNs ConstantKind = 0x17
	ConstantProtectedNs    ConstantKind = 0x18
	ConstantExplicitNs     ConstantKind = 0x19
	ConstantStaticProtNs   ConstantKind = 0x1A
	ConstantMultiname      ConstantKind = 0x1B
)

// NamespaceKind is the tag byte of a constant-pool namespace entry.
type NamespaceKind uint8

const (
	NamespaceKindNamespace          NamespaceKind = 0x08
	NamespaceKindPackage            NamespaceKind = 0x16
	NamespaceKindPackageInternal    NamespaceKind = 0x17
	NamespaceKindProtected          NamespaceKind = 0x18
	NamespaceKindExplicit           NamespaceKind = 0x19
	NamespaceKindStaticProtected    NamespaceKind = 0x1A
	NamespaceKindPrivate            NamespaceKind = 0x05
)

// MultinameKind is the tag byte of a constant-pool multiname entry.
type MultinameKind uint8

const (
	MultinameKindQName        MultinameKind = 0x07
	MultinameKindQNameA       MultinameKind = 0x0D
	MultinameKindRTQName      MultinameKind = 0x0F
	MultinameKindRTQNameA     MultinameKind = 0x10
	MultinameKindRTQNameL     MultinameKind = 0x11
	MultinameKindRTQNameLA    MultinameKind = 0x12
	MultinameKindMultiname    MultinameKind = 0x09
	MultinameKindMultinameA   MultinameKind = 0x0E
	MultinameKindMultinameL   MultinameKind = 0x1B
	MultinameKindMultinameLA  MultinameKind = 0x1C
	MultinameKindTypeName     MultinameKind = 0x1D
)

// MethodFlags are the bit flags on an ASMethod's flags byte.
type MethodFlags uint8

const (
	MethodNeedArguments MethodFlags = 1 << 0
	MethodNeedActivation MethodFlags = 1 << 1
	MethodNeedRest      MethodFlags = 1 << 2
	MethodHasOptional   MethodFlags = 1 << 3
	MethodSetDXNS       MethodFlags = 1 << 6
	MethodHasParamNames MethodFlags = 1 << 7
	MethodNative        MethodFlags = 1 << 5
)

func (f MethodFlags) Has(bit MethodFlags) bool { return f&bit != 0 }

// ClassFlags are the bit flags on an ASInstance's flags byte.
type ClassFlags uint8

const (
	ClassSealed      ClassFlags = 1 << 0
	ClassFinal       ClassFlags = 1 << 1
	ClassInterface   ClassFlags = 1 << 2
	ClassProtectedNs ClassFlags = 1 << 3
)

func (f ClassFlags) Has(bit ClassFlags) bool { return f&bit != 0 }

// TraitKind is the low nibble of a trait's kind byte.
type TraitKind uint8

const (
	TraitSlot     TraitKind = 0
	TraitMethod   TraitKind = 1
	TraitGetter   TraitKind = 2
	TraitSetter   TraitKind = 3
	TraitClass    TraitKind = 4
	TraitFunction TraitKind = 5
	TraitConst    TraitKind = 6
)

// TraitAttributes is the high nibble of a trait's kind byte.
type TraitAttributes uint8

const (
	TraitAttrFinal    TraitAttributes = 1 << 0
	TraitAttrOverride TraitAttributes = 1 << 1
	TraitAttrMetadata TraitAttributes = 1 << 2
)

func (a TraitAttributes) Has(bit TraitAttributes) bool { return a&bit != 0 }
