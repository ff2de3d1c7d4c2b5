// Package repositories gives typed access to the site's document collections
// (news, downloads, vip-users, vip-content) on top of a docstore.Store.
//
// Reads never fail: a missing collection or a store error yields an empty
// list and a log line. Writes return errors wrapping common.ErrPersistence.
// Update overwrites the whole stored document; fields missing from the
// record passed in are gone afterwards.
package repositories
