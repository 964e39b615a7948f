package barcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usHeader = "1112223333"
	usPart   = "AB12CD34"
)

func TestAssemblerHeaderThenPart(t *testing.T) {
	a := NewAssembler(homeDealer)

	out := a.Process(usHeader)
	assert.Equal(t, ClassUSHeaderOld, out.Class)
	assert.Nil(t, out.Label)
	require.NotNil(t, out.Pending)
	assert.Equal(t, FragmentHeader, out.Pending.Kind)
	assert.Equal(t, FragmentPart, out.Pending.Counterpart())

	out = a.Process(usPart)
	require.NotNil(t, out.Label)
	assert.Equal(t, "AB12CD34", out.Label.PartNumber)
	assert.Equal(t, "2223333", out.Label.ShippingOrder)
	assert.False(t, out.Label.WrongDealer)
	assert.Nil(t, a.Pending())
}

func TestAssemblerPartThenHeaderSameLabel(t *testing.T) {
	a1 := NewAssembler(homeDealer)
	a1.Process(usHeader)
	first := a1.Process(usPart).Label

	a2 := NewAssembler(homeDealer)
	a2.Process(usPart)
	second := a2.Process(usHeader).Label

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Key(), second.Key())
	assert.Equal(t, first.PDC, second.PDC)
	assert.Equal(t, first.DealerCode, second.DealerCode)
}

func TestAssemblerNewHeaderTruncated(t *testing.T) {
	a := NewAssembler(homeDealer)
	out := a.Process(usHeader + "XXXXXXXXX") // 19 chars
	assert.Equal(t, ClassUSHeaderNew, out.Class)
	require.NotNil(t, out.Pending)
	assert.Equal(t, usHeader, out.Pending.Value)
}

func TestAssemblerSameKindReplacesPending(t *testing.T) {
	a := NewAssembler(homeDealer)
	a.Process(usHeader)
	out := a.Process("9998887777")
	require.NotNil(t, out.Replaced)
	assert.Equal(t, usHeader, out.Replaced.Value)
	require.NotNil(t, out.Pending)
	assert.Equal(t, "9998887777", out.Pending.Value)
}

func TestAssemblerFullScanClearsPending(t *testing.T) {
	a := NewAssembler(homeDealer)
	a.Process(usHeader)
	out := a.Process(canadianFull)
	require.NotNil(t, out.Label)
	assert.Equal(t, OriginCanada, out.Label.Origin)
	assert.Nil(t, a.Pending())
}

func TestAssemblerRescanBands(t *testing.T) {
	a := NewAssembler(homeDealer)
	a.Process(usPart)

	// incomplete_short keeps the pending half.
	out := a.Process("123")
	assert.Equal(t, ClassIncompleteShort, out.Class)
	assert.NotNil(t, a.Pending())

	// too_long invalidates the sequence.
	out = a.Process(strings.Repeat("1", 40))
	assert.Equal(t, ClassTooLong, out.Class)
	assert.Nil(t, a.Pending())

	a.Process(usPart)
	out = a.Process(strings.Repeat("1", 25))
	assert.Equal(t, ClassIncompleteCanadian, out.Class)
	assert.Nil(t, a.Pending())
}

func TestAssemblerQuantityDoesNotTouchState(t *testing.T) {
	a := NewAssembler(homeDealer)
	a.Process(usHeader)
	out := a.Process("5")
	assert.Equal(t, 5, out.Quantity)
	assert.NotNil(t, a.Pending())
}

func TestAssemblerCancel(t *testing.T) {
	a := NewAssembler(homeDealer)
	assert.Nil(t, a.Cancel())
	a.Process(usHeader)
	dropped := a.Cancel()
	require.NotNil(t, dropped)
	assert.Equal(t, usHeader, dropped.Value)
	assert.Nil(t, a.Pending())
}

func TestAssemblerDecodeFailure(t *testing.T) {
	a := NewAssembler(homeDealer)
	// 35 chars with a letter: classified canadian, fails decode.
	bad := canadianFull[:34] + "X"
	out := a.Process(bad)
	assert.Equal(t, ClassCanadianFull, out.Class)
	assert.Nil(t, out.Label)
	assert.True(t, out.DecodeFailed)
}
