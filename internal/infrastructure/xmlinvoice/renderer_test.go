package xmlinvoice_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/xmlinvoice"
)

var issuer = invoice.Issuer{Name: "Bhojanalaya & Co", Phone: "601 555 0101", Currency: "$"}

func render(t *testing.T) []byte {
	t.Helper()
	bill := storetest.NewBill("b1", "482913", storetest.BaseTime)
	out, err := xmlinvoice.New().Render(context.Background(), bill, issuer)
	require.NoError(t, err)
	return out
}

func TestRender_Estructura(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(render(t)))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)

	assert.Equal(t, "482913", root.SelectElement("Number").Text())
	assert.Equal(t, "Bhojanalaya & Co", root.FindElement("Issuer/Name").Text())
	assert.Len(t, root.FindElements("Lines/Line"), 2)
	assert.Equal(t, "40.00", root.FindElement("Lines/Line[@n='1']/Amount").Text())
	assert.Equal(t, "2.00", root.FindElement("Totals/Tax[@category='snacks']").Text())
	assert.Equal(t, "8.00", root.FindElement("Totals/Tax[@category='hygiene']").Text())
	assert.Equal(t, "130.00", root.FindElement("Totals/Total").Text())
	assert.NotEmpty(t, root.SelectElement("Digest").Text())
}

func TestVerify(t *testing.T) {
	out := render(t)
	require.NoError(t, xmlinvoice.Verify(out))

	// Mismo contenido, mismo digest.
	assert.Equal(t, out, render(t))

	tampered := bytes.Replace(out, []byte("<Total>130.00</Total>"), []byte("<Total>13.00</Total>"), 1)
	require.NotEqual(t, out, tampered)
	assert.ErrorIs(t, xmlinvoice.Verify(tampered), xmlinvoice.ErrDigestMismatch)
}

func TestVerify_SinDigest(t *testing.T) {
	assert.Error(t, xmlinvoice.Verify([]byte(`<Invoice xmlns="urn:restaurant-billing:invoice:1"/>`)))
	assert.Error(t, xmlinvoice.Verify([]byte(`no es xml`)))
}
