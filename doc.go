// Package community implements the membership API for the alumni community
// platform: stateless JWT authentication, role based authorization, and the
// CRUD surface for the community resources (member directory, events,
// mentorships, startups, partners, newsletter).
//
// Design notes:
//   - Tokens are signed HS256 JWTs carrying a purpose claim (session or
//     password_reset). There is no server side revocation; a token is valid
//     until it expires.
//   - The credential store is consumed through the Users repository; all
//     auth components take their collaborators explicitly, no globals.
//   - Email notifications go through the Notifier interface. Welcome and
//     event confirmations are best effort; password reset delivery is not.
package community
