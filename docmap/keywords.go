package docmap

// Operator groups with dedicated mapping rules. Everything not listed maps
// through the general value rules.

// logicalKeywords take a sequence of nested query documents, each mapped
// against the same entity metadata.
var logicalKeywords = map[string]bool{
	"$and": true,
	"$or":  true,
	"$nor": true,
}

// inKeywords take a sequence whose elements are converted with the rules of
// the field they apply to, including association and target-type handling.
var inKeywords = map[string]bool{
	"$in":  true,
	"$nin": true,
}

// passthroughKeywords carry structural or numeric arguments that must never
// be reinterpreted by field conversion rules.
var passthroughKeywords = map[string]bool{
	"$exists":      true,
	"$size":        true,
	"$type":        true,
	"$slice":       true,
	"$meta":        true,
	"$maxDistance": true,
	"$minDistance": true,
	"$options":     true,
}

// geoKeywords take geo shapes: GeoJSON shapes render under $geometry,
// legacy points as flat coordinate pairs.
var geoKeywords = map[string]bool{
	"$near":          true,
	"$nearSphere":    true,
	"$geoWithin":     true,
	"$geoIntersects": true,
}

// updateKeywords head update documents; their bodies are field-path maps.
var updateKeywords = map[string]bool{
	"$set":         true,
	"$unset":       true,
	"$inc":         true,
	"$mul":         true,
	"$min":         true,
	"$max":         true,
	"$rename":      true,
	"$setOnInsert": true,
	"$push":        true,
	"$addToSet":    true,
	"$pull":        true,
	"$pullAll":     true,
	"$pop":         true,
	"$currentDate": true,
	"$bit":         true,
}
