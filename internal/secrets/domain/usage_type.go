package domain

// UsageType identifies what a secret is used for. Together with the usage ID it
// forms the usage scope: (usage type, usage id) is unique across all active
// secrets when the type is not UsageNone.
//
// The set is closed by design. Adding a new usage type means adding a constant
// here and registering it in usageTypeNames; no other core logic changes.
type UsageType string

const (
	// UsageVolume scopes a secret to a storage volume (e.g. a LUKS passphrase).
	UsageVolume UsageType = "volume"
	// UsageCeph scopes a secret to a Ceph cluster auth key.
	UsageCeph UsageType = "ceph"
	// UsageISCSI scopes a secret to iSCSI CHAP credentials.
	UsageISCSI UsageType = "iscsi"
	// UsageTLS scopes a secret to a TLS private key passphrase.
	UsageTLS UsageType = "tls"
	// UsageVTPM scopes a secret to a virtual TPM state encryption key.
	UsageVTPM UsageType = "vtpm"
	// UsageNone marks a secret without a usage scope. Secrets with UsageNone
	// are exempt from the usage uniqueness invariant.
	UsageNone UsageType = "none"
)

// usageTypeNames holds every recognized usage type.
var usageTypeNames = map[UsageType]struct{}{
	UsageVolume: {},
	UsageCeph:   {},
	UsageISCSI:  {},
	UsageTLS:    {},
	UsageVTPM:   {},
	UsageNone:   {},
}

// ParseUsageType converts a string into a UsageType.
// Returns ErrInvalidUsageType for unknown values. Matching is case-sensitive.
func ParseUsageType(s string) (UsageType, error) {
	ut := UsageType(s)
	if _, ok := usageTypeNames[ut]; !ok {
		return "", ErrInvalidUsageType
	}
	return ut, nil
}

// String returns the wire representation of the usage type.
func (u UsageType) String() string {
	return string(u)
}

// Valid reports whether the usage type is one of the recognized constants.
func (u UsageType) Valid() bool {
	_, ok := usageTypeNames[u]
	return ok
}
