package auth

// CanMutate reports whether identity may update or delete a resource owned by ownerID.
// Reads are not gated here: owner-only reads are scoped in the query itself.
func CanMutate(identity *Identity, ownerID string) bool {
	if identity == nil || identity.ID == "" {
		return false
	}
	return identity.ID == ownerID
}
