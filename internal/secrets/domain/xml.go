package domain

import (
	"encoding/xml"

	"github.com/allisson/secretd/internal/errors"
)

// xmlUsage is the serialized usage scope of a secret descriptor.
type xmlUsage struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,omitempty"`
}

// xmlSecret is the serialized form of a secret descriptor. The secret value is
// deliberately absent from this structure: descriptors carry metadata only.
type xmlSecret struct {
	XMLName   xml.Name  `xml:"secret"`
	Ephemeral string    `xml:"ephemeral,attr"`
	Private   string    `xml:"private,attr"`
	UUID      string    `xml:"uuid"`
	Usage     *xmlUsage `xml:"usage,omitempty"`
}

// DescribeXML synthesizes the XML descriptor for a secret.
//
// The secret value is never embedded. For private secrets the usage scope is
// treated as sensitive and omitted unless opts.IncludePrivate is set.
func DescribeXML(secret *Secret, opts DescribeOptions) (string, error) {
	desc := xmlSecret{
		Ephemeral: yesNo(secret.Ephemeral),
		Private:   yesNo(secret.Private),
		UUID:      secret.UUID.String(),
	}

	if !secret.Private || opts.IncludePrivate {
		desc.Usage = &xmlUsage{
			Type: secret.UsageType.String(),
			ID:   secret.UsageID,
		}
	}

	out, err := xml.MarshalIndent(desc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal secret descriptor")
	}

	return string(out) + "\n", nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
