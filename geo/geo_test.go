package geo_test

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/docmap/docmap/geo"
)

func TestPoint(t *testing.T) {
	p := geo.Point{X: 1.5, Y: -2}

	wantDoc := bson.D{{Key: "x", Value: 1.5}, {Key: "y", Value: -2.0}}
	if got := p.Document(); !reflect.DeepEqual(got, wantDoc) {
		t.Errorf("Document() = %v, want %v", got, wantDoc)
	}

	wantCoords := bson.A{1.5, -2.0}
	if got := p.Coordinates(); !reflect.DeepEqual(got, wantCoords) {
		t.Errorf("Coordinates() = %v, want %v", got, wantCoords)
	}
}

func TestGeoJSONPoint(t *testing.T) {
	p := geo.GeoJSONPoint{X: 100, Y: 50}

	if p.GeoJSONType() != "Point" {
		t.Errorf("GeoJSONType() = %q, want %q", p.GeoJSONType(), "Point")
	}
	want := bson.D{
		{Key: "type", Value: "Point"},
		{Key: "coordinates", Value: bson.A{100.0, 50.0}},
	}
	if got := p.Document(); !reflect.DeepEqual(got, want) {
		t.Errorf("Document() = %v, want %v", got, want)
	}
}

func TestGeoJSONPolygon(t *testing.T) {
	poly := geo.NewGeoJSONPolygon(
		geo.Point{X: 0, Y: 0},
		geo.Point{X: 0, Y: 1},
		geo.Point{X: 1, Y: 1},
		geo.Point{X: 0, Y: 0},
	)

	if poly.GeoJSONType() != "Polygon" {
		t.Errorf("GeoJSONType() = %q, want %q", poly.GeoJSONType(), "Polygon")
	}
	want := bson.D{
		{Key: "type", Value: "Polygon"},
		{Key: "coordinates", Value: bson.A{bson.A{
			bson.A{0.0, 0.0},
			bson.A{0.0, 1.0},
			bson.A{1.0, 1.0},
			bson.A{0.0, 0.0},
		}}},
	}
	if got := poly.Document(); !reflect.DeepEqual(got, want) {
		t.Errorf("Document() = %v, want %v", got, want)
	}
}
