// Package xmlinvoice genera la factura como documento XML con un digest SHA-256
// del cuerpo canónico (C14N), para verificar que no fue alterada. Con un Signer
// configurado el digest además va firmado con RSA-SHA256 y el certificado del restaurante.
package xmlinvoice

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// Namespace y algoritmos del documento.
const (
	Namespace = "urn:restaurant-billing:invoice:1"
	AlgC14N   = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"
)

// ErrDigestMismatch el contenido no coincide con su digest.
var ErrDigestMismatch = errors.New("xmlinvoice: el digest no coincide")

var _ invoice.Renderer = (*Renderer)(nil)

// Renderer implementa invoice.Renderer en XML.
type Renderer struct {
	signer *Signer
}

// Option configura el Renderer.
type Option func(*Renderer)

// WithSigner firma cada factura con s. Un s nil deja la factura sin firma.
func WithSigner(s *Signer) Option {
	return func(r *Renderer) { r.signer = s }
}

// New construye el renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (*Renderer) Format() string      { return "xml" }
func (*Renderer) ContentType() string { return "application/xml" }
func (*Renderer) Extension() string   { return "xml" }

// Render construye el documento, calcula el digest del cuerpo canónico y lo agrega
// al final, seguido de la firma si hay Signer.
func (r *Renderer) Render(_ context.Context, bill *entity.Bill, issuer invoice.Issuer) ([]byte, error) {
	doc := buildDocument(bill, issuer)

	digest, err := digestOf(doc.Root())
	if err != nil {
		return nil, err
	}
	d := doc.Root().CreateElement("Digest")
	d.CreateAttr("Algorithm", AlgSHA256)
	d.CreateAttr("Canonicalization", AlgC14N)
	d.SetText(digest)

	if r.signer != nil {
		sig, err := r.signer.signatureElement(digest)
		if err != nil {
			return nil, err
		}
		doc.Root().AddChild(sig)
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xmlinvoice: escribir: %w", err)
	}
	return out.Bytes(), nil
}

// Verify recalcula el digest del documento (sin Digest ni Signature) y lo compara.
// Si el documento trae firma, también la valida.
func Verify(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("xmlinvoice: parsear: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("xmlinvoice: documento sin raíz")
	}
	d := root.SelectElement("Digest")
	if d == nil {
		return fmt.Errorf("xmlinvoice: falta el nodo Digest")
	}
	stripIndent(root)
	want := d.Text()
	root.RemoveChild(d)
	sig := root.SelectElement("Signature")
	if sig != nil {
		root.RemoveChild(sig)
	}

	got, err := digestOf(root)
	if err != nil {
		return err
	}
	if got != want {
		return ErrDigestMismatch
	}
	if sig != nil {
		return verifySignature(sig, want)
	}
	return nil
}

// Signed indica si el documento trae nodo Signature.
func Signed(data []byte) bool {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		return false
	}
	return doc.Root().SelectElement("Signature") != nil
}

func buildDocument(bill *entity.Bill, issuer invoice.Issuer) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", Namespace)
	root.CreateElement("ID").SetText(bill.ID)
	root.CreateElement("Number").SetText(bill.Number)
	root.CreateElement("IssueDate").SetText(bill.Timestamp.UTC().Format(time.RFC3339Nano))

	is := root.CreateElement("Issuer")
	is.CreateElement("Name").SetText(issuer.Name)
	if issuer.Address != "" {
		is.CreateElement("Address").SetText(issuer.Address)
	}
	if issuer.Phone != "" {
		is.CreateElement("Phone").SetText(issuer.Phone)
	}

	cu := root.CreateElement("Customer")
	cu.CreateElement("Name").SetText(bill.CustomerName)
	cu.CreateElement("Phone").SetText(bill.CustomerPhone)

	lines := root.CreateElement("Lines")
	for i, l := range bill.Lines {
		el := lines.CreateElement("Line")
		el.CreateAttr("n", strconv.Itoa(i+1))
		el.CreateElement("Name").SetText(l.ItemName)
		if l.ItemCode != "" {
			el.CreateElement("Code").SetText(l.ItemCode)
		}
		el.CreateElement("Category").SetText(l.Category.String())
		el.CreateElement("Quantity").SetText(strconv.Itoa(l.Quantity))
		el.CreateElement("UnitPrice").SetText(l.UnitPrice.StringFixed(2))
		el.CreateElement("Amount").SetText(l.Amount.StringFixed(2))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Subtotal").SetText(bill.Subtotal.StringFixed(2))
	cats := make([]entity.TaxCategory, 0, len(bill.TaxBreakdown))
	for c := range bill.TaxBreakdown {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		tax := totals.CreateElement("Tax")
		tax.CreateAttr("category", c.String())
		tax.SetText(bill.TaxBreakdown[c].StringFixed(2))
	}
	totals.CreateElement("TaxTotal").SetText(bill.TaxTotal.StringFixed(2))
	totals.CreateElement("Total").SetText(bill.Total.StringFixed(2))
	if issuer.Currency != "" {
		totals.CreateAttr("currency", issuer.Currency)
	}
	return doc
}

// digestOf SHA-256 en base64 de la forma canónica del elemento raíz.
func digestOf(root *etree.Element) (string, error) {
	canonical, err := canonicalBytes(root)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

// canonicalBytes serializa una copia de el como documento propio y la canonicaliza (C14N).
func canonicalBytes(el *etree.Element) ([]byte, error) {
	body := etree.NewDocument()
	body.SetRoot(el.Copy())
	raw, err := body.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlinvoice: serializar: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("xmlinvoice: canonicalizar: %w", err)
	}
	return canonical, nil
}

// stripIndent quita los nodos de texto de solo espacios que agrega Indent.
func stripIndent(el *etree.Element) {
	var blank []etree.Token
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok && cd.IsWhitespace() {
			blank = append(blank, cd)
		}
	}
	for _, tok := range blank {
		el.RemoveChild(tok)
	}
	for _, child := range el.ChildElements() {
		stripIndent(child)
	}
}
