package delivery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeliveryNote(t *testing.T) {
	doc := BuildDeliveryNote(Header{
		Customer:     "CUST-0001",
		Date:         "2026-08-30",
		Time:         "14:00",
		IsReturn:     true,
		Warehouse:    "Main - A",
		NamingSeries: "MAT-DN-.YYYY.-.#####",
	}, []Item{
		{ItemCode: "ITM-001", ItemName: "Bolt", UOM: "Nos", Qty: 4, Rate: 250},
	})

	assert.Equal(t, "CUST-0001", doc.Customer)
	assert.Equal(t, "2026-08-30", doc.PostingDate)
	assert.Equal(t, "14:00", doc.PostingTime)
	assert.Equal(t, 1, doc.IsReturn)
	assert.Equal(t, "Main - A", doc.SetWarehouse)
	assert.Equal(t, "MAT-DN-.YYYY.-.#####", doc.NamingSeries)

	require.Len(t, doc.Items, 1)
	line := doc.Items[0]
	assert.InDelta(t, 4, line.Qty, 1e-9)
	assert.InDelta(t, 1000, line.Amount, 1e-9)
	assert.Equal(t, "Main - A", line.Warehouse)
}

func TestItemsSurviveJSONRoundTrip(t *testing.T) {
	stored := AppendItem(nil, Item{ItemCode: "ITM-001", ItemName: "Bolt", UOM: "Nos", Qty: 2, Rate: 100})

	raw, err := json.Marshal(map[string]any{"items": stored})
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))

	items := ItemsFromState(data["items"])
	require.Len(t, items, 1)
	assert.Equal(t, "Bolt", items[0].ItemName)
	assert.InDelta(t, 2, items[0].Qty, 1e-9)
	assert.InDelta(t, 100, items[0].Rate, 1e-9)
}
