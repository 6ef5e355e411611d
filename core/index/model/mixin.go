package model

type AttributesMixin struct {
	attributes map[string]string
}

/* Get a codec attribute value, or "" if it does not exist */
func (m *AttributesMixin) Attribute(key string) string {
	if m.attributes == nil {
		return ""
	}
	return m.attributes[key]
}

/*
Puts a codec attribute value, returning the previous value or "".
A later put under the same key wins.
*/
func (m *AttributesMixin) PutAttribute(key, value string) string {
	if m.attributes == nil {
		m.attributes = make(map[string]string)
	}
	old := m.attributes[key]
	m.attributes[key] = value
	return old
}

/* Returns the internal codec attributes map. */
func (m *AttributesMixin) Attributes() map[string]string {
	return m.attributes
}
