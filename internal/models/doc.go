// Package models defines the domain types shared by the console session
// layer and the credential service: identities and roles, login credentials,
// verification challenges and the results exchanged during a login.
package models
