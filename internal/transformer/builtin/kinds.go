package builtin

// Kinds lists the transform kinds a dataset config may name, one per
// transformer in this package.
var Kinds = []string{"normalize", "coerce", "filter", "require", "dedup"}
