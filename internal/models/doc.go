// Package models defines the core domain models for Tripmate.
//
// # Models
//
//   - User: a registered traveller with a unique username
//   - Expense: money spent on the trip, optionally shared with other users
//   - Todo: a shared task for the trip
//   - Assignment: one user's status on one todo (the User<->Todo join)
//
// # Design Principles
//
//  1. **ID references, not pointers**: relationships are stored as integer
//     ids (Expense.SharedWith, Assignment.UserID/TodoID) to avoid circular
//     references. The service layer resolves ids to full entities at read
//     time; raw ids never reach API callers.
//  2. **Replace, never patch**: mutable entities are updated by full
//     replacement of their mutable fields, so concurrent readers only ever
//     see complete rows.
//  3. **Storage owns identity**: ids and creation timestamps are assigned
//     by the store, not by callers.
package models
