package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeDealer = "095207"

// pdc=011 so=2223333 dealer=095207 part=44440000 serial=00000000001
const canadianFull = "011" + "2223333" + "095207" + "44440000" + "00000000001"

func TestDecodeCanadian(t *testing.T) {
	l := DecodeCanadian(canadianFull, homeDealer)
	require.NotNil(t, l)
	assert.Equal(t, OriginCanada, l.Origin)
	assert.Equal(t, "011", l.PDC)
	assert.Equal(t, "2223333", l.ShippingOrder)
	assert.Equal(t, "095207", l.DealerCode)
	assert.Equal(t, "44440000", l.PartNumber)
	assert.Equal(t, "00000000001", l.Serial)
	assert.False(t, l.WrongDealer)
}

func TestDecodeCanadianLeadingZeroDropped(t *testing.T) {
	// Damaged labels lose the leading zero; the 34-char payload must decode
	// identically to the padded 35-char one.
	short := canadianFull[1:]
	require.Len(t, short, 34)

	padded := DecodeCanadian(canadianFull, homeDealer)
	dropped := DecodeCanadian(short, homeDealer)
	require.NotNil(t, dropped)
	assert.Equal(t, padded.PDC, dropped.PDC)
	assert.Equal(t, padded.ShippingOrder, dropped.ShippingOrder)
	assert.Equal(t, padded.DealerCode, dropped.DealerCode)
	assert.Equal(t, padded.PartNumber, dropped.PartNumber)
	assert.Equal(t, padded.Serial, dropped.Serial)
	assert.Equal(t, short, dropped.Raw)
}

func TestDecodeCanadianRejectsBadPayload(t *testing.T) {
	assert.Nil(t, DecodeCanadian("12345", homeDealer))
	nonDigit := canadianFull[:34] + "X"
	assert.Nil(t, DecodeCanadian(nonDigit, homeDealer))
}

func TestDecodeCanadianWrongDealer(t *testing.T) {
	other := canadianFull[:10] + "999999" + canadianFull[16:]
	l := DecodeCanadian(other, homeDealer)
	require.NotNil(t, l)
	assert.True(t, l.WrongDealer)
	assert.Equal(t, "999999", l.DealerCode)
}

func TestDecodeUS(t *testing.T) {
	combined := "111" + "2223333" + homeDealer + "AB12CD34"
	require.Len(t, combined, 24)
	l := DecodeUS(combined, homeDealer)
	require.NotNil(t, l)
	assert.Equal(t, OriginUS, l.Origin)
	assert.Equal(t, "111", l.PDC)
	assert.Equal(t, "2223333", l.ShippingOrder)
	assert.Equal(t, "AB12CD34", l.PartNumber)
	assert.Empty(t, l.Serial)
	assert.False(t, l.WrongDealer)

	withSerial := DecodeUS(combined+"S1", homeDealer)
	require.NotNil(t, withSerial)
	assert.Equal(t, "S1", withSerial.Serial)

	assert.Nil(t, DecodeUS(combined[:23], homeDealer))
}

func TestLabelKey(t *testing.T) {
	l := &Label{PartNumber: "44440000", ShippingOrder: "2223333"}
	assert.Equal(t, "44440000|2223333", l.Key())
}
