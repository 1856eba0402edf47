package tenant

import (
	"net/http"
	"strings"
)

// DefaultHeader is the request header carrying an explicit tenant UUID.
const DefaultHeader = "X-Tenant"

// IdentityKind tags how an identity candidate was derived from a request.
type IdentityKind int

const (
	// IdentityID is an explicit tenant UUID from the tenant header.
	IdentityID IdentityKind = iota
	// IdentityDomain is the full request host.
	IdentityDomain
	// IdentitySubdomain is the leftmost host label, tried only after the
	// full host fails to resolve.
	IdentitySubdomain
)

// Identity is a single tenant identity candidate extracted from a request.
// Immutable once extracted.
type Identity struct {
	Kind  IdentityKind
	Value string
}

// ExtractIdentities derives ordered identity candidates from the request,
// highest precedence first: explicit header, full host, then the leftmost
// label for hosts with more than two dot-separated labels. A port suffix
// is stripped from the host before evaluation.
//
// An empty result means the request carries no usable identity; callers
// must fail closed with ErrIdentityMissing rather than guess.
func ExtractIdentities(r *http.Request, header string) []Identity {
	if header == "" {
		header = DefaultHeader
	}

	var ids []Identity

	if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
		ids = append(ids, Identity{Kind: IdentityID, Value: v})
	}

	host := r.Host
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if host != "" {
		ids = append(ids, Identity{Kind: IdentityDomain, Value: host})

		if labels := strings.Split(host, "."); len(labels) > 2 && labels[0] != "" {
			ids = append(ids, Identity{Kind: IdentitySubdomain, Value: labels[0]})
		}
	}

	return ids
}
