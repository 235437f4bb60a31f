// Package kernel holds the value objects shared by every aggregate of the
// split shipment domain:
//   - UUID: validated identifier wrapper used for plans and recipients
//   - Shop: the tenant scope key every query and mutation is partitioned by
//   - Address: the postal address a recipient ships to
//
// All kernel values are immutable once constructed and reject their zero
// value through Validate.
package kernel
