// Package recipient models the address-book entry a split plan allocates
// quantity to. The split shipment core only reads a recipient's name and
// address when it builds fulfillment instructions; it never mutates one.
package recipient
