// Package storefront declares the two forms of the storefront: the product
// editor used by the admin and the customer sign-up form. Both definitions
// are derived from an embedded OpenAPI document and overlay, and the package
// provides the operations that submit them.
package storefront
