package xmlinvoice

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/crypto/pkcs12"
)

// Algoritmos de la firma.
const (
	AlgRSASHA256 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	referenceURI = "#invoice-body"
)

// ErrSignatureInvalid la firma no corresponde al digest o al certificado.
var ErrSignatureInvalid = errors.New("xmlinvoice: firma inválida")

// Signer firma el digest de la factura con la llave RSA del restaurante.
type Signer struct {
	key  *rsa.PrivateKey
	cert *x509.Certificate
}

// NewSigner construye el firmador desde un par certificado/llave ya cargado.
func NewSigner(cert tls.Certificate) (*Signer, error) {
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("xmlinvoice: el certificado debe incluir llave privada RSA")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("xmlinvoice: certificado vacío")
	}
	leaf := cert.Leaf
	if leaf == nil {
		var err error
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("xmlinvoice: parsear certificado: %w", err)
		}
	}
	return &Signer{key: priv, cert: leaf}, nil
}

// LoadSignerP12 carga certificado y llave desde un archivo .p12/.pfx.
// El password puede ser vacío si el archivo no está protegido.
func LoadSignerP12(path, password string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, fmt.Errorf("decodificar p12: %w", err)
	}
	return NewSigner(tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	})
}

// LoadSignerPEM carga certificado y llave desde archivos PEM (separados o combinados).
func LoadSignerPEM(certPath, keyPath string) (*Signer, error) {
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("cargar PEM: %w", err)
	}
	return NewSigner(cert)
}

// LoadSigner elige el formato por la extensión: .p12/.pfx (con password) o PEM.
func LoadSigner(certPath, keyPath, password string) (*Signer, error) {
	switch strings.ToLower(filepath.Ext(certPath)) {
	case ".p12", ".pfx":
		return LoadSignerP12(certPath, password)
	}
	return LoadSignerPEM(certPath, keyPath)
}

// Subject nombre del certificado, para logs.
func (s *Signer) Subject() string { return s.cert.Subject.String() }

// signatureElement arma <Signature>: SignedInfo con el digest del cuerpo, el valor
// RSA-SHA256 sobre el SignedInfo canónico y el certificado en base64.
func (s *Signer) signatureElement(digestB64 string) (*etree.Element, error) {
	sig := etree.NewElement("Signature")

	signedInfo := sig.CreateElement("SignedInfo")
	signedInfo.CreateElement("CanonicalizationMethod").CreateAttr("Algorithm", AlgC14N)
	signedInfo.CreateElement("SignatureMethod").CreateAttr("Algorithm", AlgRSASHA256)
	ref := signedInfo.CreateElement("Reference")
	ref.CreateAttr("URI", referenceURI)
	ref.CreateElement("DigestMethod").CreateAttr("Algorithm", AlgSHA256)
	ref.CreateElement("DigestValue").SetText(digestB64)

	canonical, err := canonicalBytes(signedInfo)
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(canonical)
	value, err := rsa.SignPKCS1v15(nil, s.key, crypto.SHA256, hash[:])
	if err != nil {
		return nil, fmt.Errorf("xmlinvoice: firmar SignedInfo: %w", err)
	}
	sig.CreateElement("SignatureValue").SetText(base64.StdEncoding.EncodeToString(value))

	certDigest := sha256.Sum256(s.cert.Raw)
	keyInfo := sig.CreateElement("KeyInfo")
	keyInfo.CreateElement("X509Certificate").SetText(base64.StdEncoding.EncodeToString(s.cert.Raw))
	keyInfo.CreateElement("CertDigest").SetText(base64.StdEncoding.EncodeToString(certDigest[:]))
	keyInfo.CreateElement("X509SerialNumber").SetText(s.cert.SerialNumber.Text(16))
	return sig, nil
}

// verifySignature comprueba que SignedInfo referencia digestB64 y que SignatureValue
// fue producido por la llave del certificado incluido.
func verifySignature(sig *etree.Element, digestB64 string) error {
	signedInfo := sig.SelectElement("SignedInfo")
	if signedInfo == nil {
		return fmt.Errorf("%w: falta SignedInfo", ErrSignatureInvalid)
	}
	dv := signedInfo.FindElement("Reference/DigestValue")
	if dv == nil || dv.Text() != digestB64 {
		return fmt.Errorf("%w: el digest referenciado no coincide", ErrSignatureInvalid)
	}
	certEl := sig.FindElement("KeyInfo/X509Certificate")
	valueEl := sig.SelectElement("SignatureValue")
	if certEl == nil || valueEl == nil {
		return fmt.Errorf("%w: faltan certificado o valor", ErrSignatureInvalid)
	}
	der, err := base64.StdEncoding.DecodeString(certEl.Text())
	if err != nil {
		return fmt.Errorf("%w: certificado: %v", ErrSignatureInvalid, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return fmt.Errorf("%w: certificado: %v", ErrSignatureInvalid, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: llave pública no RSA", ErrSignatureInvalid)
	}
	value, err := base64.StdEncoding.DecodeString(valueEl.Text())
	if err != nil {
		return fmt.Errorf("%w: valor: %v", ErrSignatureInvalid, err)
	}
	canonical, err := canonicalBytes(signedInfo)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(canonical)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, hash[:], value); err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}
