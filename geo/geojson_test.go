package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roundTripArrays = map[Kind]any{
	KindPoint:        []float64{1, 2},
	KindMultiPoint:   [][]float64{{1, 2}, {3, 4}, {5, 6}},
	KindPolygon:      [][][]float64{{{1, 2}, {3, 4}}, {{1, 2}, {3, 4}}},
	KindMultiPolygon: [][][][]float64{{{{1, 2}, {3, 4}}, {{1, 2}, {3, 4}}}, {{{1, 2}, {3, 4}}, {{1, 2}, {3, 4}}}},
}

func TestJSONRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			for _, ref := range []int{0, 999, 4326} {
				m, err := FromArray(kind, roundTripArrays[kind], ref)
				require.NoError(t, err)
				assert.Equal(t, roundTripArrays[kind], m.ToArray())

				back, err := FromJSON(m.ToJSON(), ref)
				require.NoError(t, err)
				assert.True(t, m.Equal(back))

				data, err := json.Marshal(m)
				require.NoError(t, err)
				decoded, err := UnmarshalGeometry(data, ref)
				require.NoError(t, err)
				assert.True(t, m.Equal(decoded), "%s", data)
			}
		})
	}
}

func TestFromJSONReferenceID(t *testing.T) {
	p := NewPoint(1, 2, 999)

	back, err := FromJSON(p.ToJSON(), 0)
	require.NoError(t, err)
	assert.False(t, p.Equal(back), "reference id is not part of the geojson")
	assert.Equal(t, 0, back.ReferenceID())
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewPoint(1, 2, 999))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[1,2]}`, string(data))

	poly, err := PolygonFromArray([][][]float64{{{1, 2}, {3, 4}}}, 0)
	require.NoError(t, err)
	data, err = json.Marshal(poly)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Polygon","coordinates":[[[1,2],[3,4]]]}`, string(data))
}

func TestUnmarshalGeometry(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		kind    Kind
		wantErr error
	}{
		{"point", `{"type":"Point","coordinates":[1,2]}`, KindPoint, nil},
		{"integers and floats", `{"type":"MultiPoint","coordinates":[[1,2.5],[-3,4e2]]}`, KindMultiPoint, nil},
		{"multipolygon", `{"type":"MultiPolygon","coordinates":[[[[1,1]]]]}`, KindMultiPolygon, nil},
		{"missing type", `{"coordinates":[1,2]}`, 0, ErrMalformedGeoJSON},
		{"missing coordinates", `{"type":"Point"}`, 0, ErrMalformedGeoJSON},
		{"null coordinates", `{"type":"Point","coordinates":null}`, 0, ErrMalformedGeoJSON},
		{"not json", `{"type":`, 0, ErrMalformedGeoJSON},
		{"unknown type", `{"type":"LineString","coordinates":[[1,2],[3,4]]}`, 0, ErrUnsupportedGeometryType},
		{"too shallow", `{"type":"Polygon","coordinates":[[1,2],[3,4]]}`, 0, ErrShapeMismatch},
		{"too deep", `{"type":"Point","coordinates":[[1,2]]}`, 0, ErrShapeMismatch},
		{"three coordinates", `{"type":"Point","coordinates":[1,2,3]}`, 0, ErrShapeMismatch},
		{"string coordinate", `{"type":"Point","coordinates":["1",2]}`, 0, ErrShapeMismatch},
		{"scalar coordinates", `{"type":"MultiPoint","coordinates":5}`, 0, ErrShapeMismatch},
		{"empty ring", `{"type":"Polygon","coordinates":[[]]}`, 0, ErrEmptyComposite},
		{"empty multipoint", `{"type":"MultiPoint","coordinates":[]}`, 0, ErrEmptyComposite},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := UnmarshalGeometry([]byte(tc.input), 0)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, m.Kind())
		})
	}
}

func TestFromArrayAcceptsLooseNumbers(t *testing.T) {
	m, err := FromArray(KindMultiPoint, []any{[]any{1, int64(2)}, []any{float32(3), json.Number("4")}}, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, m.ToArray())

	_, err = FromArray(KindPoint, []any{true, 1}, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FromArray(Kind(12), []float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrUnsupportedGeometryType)
}

func TestFromArrayRejectsNonFinite(t *testing.T) {
	testCases := []struct {
		name  string
		kind  Kind
		array any
	}{
		{"nan x", KindPoint, []any{math.NaN(), 1.0}},
		{"inf y", KindPoint, []float64{1, math.Inf(1)}},
		{"negative inf", KindPoint, []any{math.Inf(-1), 0}},
		{"nan in ring", KindPolygon, []any{[]any{[]any{1, 2}, []any{float32(math.NaN()), 2}}}},
		{"nan number literal", KindPoint, []any{json.Number("NaN"), 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromArray(tc.kind, tc.array, 0)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestDecodedPointsAreReflexive(t *testing.T) {
	for kind, array := range roundTripArrays {
		m, err := FromArray(kind, array, 7)
		require.NoError(t, err)
		assert.True(t, m.Equal(m), kind.String())
	}
}

func TestGeoJSONObjectDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		features int
		geometry bool
		wantErr  error
	}{
		{"geometry", `{"type":"Point","coordinates":[10,20]}`, 1, true, nil},
		{"feature", `{"type":"Feature","geometry":{"type":"Point","coordinates":[10,20]},"properties":{"a":1}}`, 1, false, nil},
		{"lowercase feature", `{"type":"feature","geometry":null}`, 1, false, nil},
		{"collection", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null},{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}}]}`, 2, false, nil},
		{"no type", `{"coordinates":[1,2]}`, 0, false, ErrMalformedGeoJSON},
		{"bad feature", `{"type":"FeatureCollection","features":[{"type":"Thing"}]}`, 0, false, ErrMalformedGeoJSON},
		{"unsupported", `{"type":"GeometryCollection","geometries":[]}`, 0, false, ErrMalformedGeoJSON},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var obj GeoJSONObject
			require.NoError(t, json.Unmarshal([]byte(tc.input), &obj))

			fc, err := obj.Decode(0)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, fc.Features, tc.features)
			assert.Equal(t, tc.geometry, obj.IsGeometry())
		})
	}
}
