package purchase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPurchaseReceipt(t *testing.T) {
	doc := BuildPurchaseReceipt(Header{
		Supplier:     "SUP-0001",
		Note:         "NAKL-77",
		Date:         "2026-08-30",
		Time:         "09:30",
		Putaway:      true,
		IsReturn:     false,
		Warehouse:    "Main - A",
		RejectedWh:   "Rejects - A",
		NamingSeries: "MAT-PRE-.YYYY.-.#####",
	}, []Item{
		{ItemCode: "ITM-001", ItemName: "Bolt", UOM: "Nos", Qty: 10, RejectedQty: 2, Rate: 1500},
		{ItemCode: "ITM-002", ItemName: "Nut", UOM: "Nos", Qty: 5, Rate: 700},
	})

	assert.Equal(t, "SUP-0001", doc.Supplier)
	assert.Equal(t, "NAKL-77", doc.SupplierDeliveryNote)
	assert.Equal(t, "2026-08-30", doc.PostingDate)
	assert.Equal(t, "09:30", doc.PostingTime)
	assert.Equal(t, 1, doc.ApplyPutawayRule)
	assert.Equal(t, 0, doc.IsReturn)
	assert.Equal(t, "Main - A", doc.SetWarehouse)

	require.Len(t, doc.Items, 2)

	first := doc.Items[0]
	assert.InDelta(t, 10, first.Qty, 1e-9)
	assert.InDelta(t, 12, first.ReceivedQty, 1e-9)
	assert.InDelta(t, 10, first.AcceptedQty, 1e-9)
	assert.InDelta(t, 2, first.RejectedQty, 1e-9)
	assert.InDelta(t, 15000, first.Amount, 1e-9)
	assert.Equal(t, "Main - A", first.Warehouse)
	assert.Equal(t, "Rejects - A", first.RejectedWarehouse)

	second := doc.Items[1]
	assert.InDelta(t, 5, second.ReceivedQty, 1e-9)
	// no rejected qty, no rejected warehouse on the line
	assert.Empty(t, second.RejectedWarehouse)
}

func TestItemsSurviveJSONRoundTrip(t *testing.T) {
	stored := AppendItem(nil, Item{ItemCode: "ITM-001", ItemName: "Bolt", UOM: "Nos", Qty: 3, Rate: 100})
	stored = AppendItem(stored, Item{ItemCode: "ITM-002", ItemName: "Nut", UOM: "Nos", Qty: 1, RejectedQty: 1, Rate: 50})

	// the engine persists state data as JSON between updates
	raw, err := json.Marshal(map[string]any{"items": stored})
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))

	items := ItemsFromState(data["items"])
	require.Len(t, items, 2)
	assert.Equal(t, "ITM-001", items[0].ItemCode)
	assert.InDelta(t, 3, items[0].Qty, 1e-9)
	assert.Equal(t, "Nut", items[1].ItemName)
	assert.InDelta(t, 1, items[1].RejectedQty, 1e-9)
}

func TestItemsFromStateNil(t *testing.T) {
	assert.Nil(t, ItemsFromState(nil))
	assert.Empty(t, ItemsFromState("garbage"))
}
