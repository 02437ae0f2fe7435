// Package storage keeps the identity-document photos submitted at registration.
//
// [S3Storage] writes private objects to an S3-compatible bucket and hands out
// presigned links. [MemoryStorage] serves development and tests.
// [Uploader] sits on top of either one:
//
//	up := storage.NewUploader(s3store)
//	key, err := up.Upload(ctx, fh, "cni/recto")
//	if errors.Is(err, storage.ErrInvalidMIME) {
//		// not a JPEG or PNG
//	}
package storage
