// Package personname implements PersonName, a value type for human names
// written as "Family, Given".
//
// Parsing validates the text against a small token grammar and canonicalizes
// it by dropping a lone space after the comma, so "Doe, John" and "Doe,John"
// are the same name. A parsed value exposes its family and given parts, a
// display form ("John Doe"), a byte-wise total order and a 32-bit hash that
// agrees with equality. These are the operations a storage engine needs to
// persist, sort and hash-index the type; the canonical string is the only
// serialized representation.
package personname
