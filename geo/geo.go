// Package geo provides the domain-level geo shapes understood by the query
// mapper and their wire-document representations. Legacy coordinates render
// as flat [x, y] pairs, GeoJSON shapes as {type, coordinates} documents.
package geo

import "go.mongodb.org/mongo-driver/v2/bson"

// Point is a legacy coordinate pair.
type Point struct {
	X float64
	Y float64
}

// Document renders the point in the legacy {x, y} form used when a point is
// embedded as a plain field value.
func (p Point) Document() bson.D {
	return bson.D{{Key: "x", Value: p.X}, {Key: "y", Value: p.Y}}
}

// Coordinates renders the point as the flat [x, y] array expected by legacy
// geo operators.
func (p Point) Coordinates() bson.A {
	return bson.A{p.X, p.Y}
}

// Shape is a GeoJSON geometry. Shapes render themselves into the
// {type, coordinates} document placed under $geometry by the mapper.
type Shape interface {
	// GeoJSONType returns the GeoJSON type name, e.g. "Point" or "Polygon".
	GeoJSONType() string

	// Document returns the {type, coordinates} wire document.
	Document() bson.D
}

// GeoJSONPoint is a GeoJSON point geometry.
type GeoJSONPoint struct {
	X float64
	Y float64
}

// GeoJSONType implements Shape.
func (p GeoJSONPoint) GeoJSONType() string { return "Point" }

// Document implements Shape.
func (p GeoJSONPoint) Document() bson.D {
	return bson.D{
		{Key: "type", Value: "Point"},
		{Key: "coordinates", Value: bson.A{p.X, p.Y}},
	}
}

// GeoJSONPolygon is a GeoJSON polygon with a single outer ring.
type GeoJSONPolygon struct {
	Points []Point
}

// NewGeoJSONPolygon builds a polygon from its ring points. The caller is
// responsible for closing the ring (first point repeated last).
func NewGeoJSONPolygon(points ...Point) GeoJSONPolygon {
	return GeoJSONPolygon{Points: points}
}

// GeoJSONType implements Shape.
func (p GeoJSONPolygon) GeoJSONType() string { return "Polygon" }

// Document implements Shape.
func (p GeoJSONPolygon) Document() bson.D {
	ring := make(bson.A, 0, len(p.Points))
	for _, pt := range p.Points {
		ring = append(ring, pt.Coordinates())
	}
	return bson.D{
		{Key: "type", Value: "Polygon"},
		{Key: "coordinates", Value: bson.A{ring}},
	}
}
