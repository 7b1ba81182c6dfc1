// Package models defines the core domain models for Splitshare.
//
// # Models
//
//   - User: Registered account; every group member is a user
//   - Group: Named collection of members sharing expenses
//   - Member: A user's appearance in a group roster, in join order
//   - Expense: One payment by a member, split equally across the roster
//
// # Design Principles
//
// 1. **Snapshots, not references**: Stores return copies; nothing outside a
// store mutates its canonical state
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Unix timestamps**: All times are stored as Unix seconds
// 4. **Validation at creation**: Invalid values are rejected with a
// *ValidationError before they reach storage; the balance engine never validates
package models
