// Package s3 mirrors issued certificates to Amazon S3 or an S3-compatible
// store such as MinIO.
//
//	mirror, err := s3.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	err = mirror.Mirror(ctx, "example.com", files)
//
// Objects are written to <prefix>/<domain>/<file>. Key files are uploaded with
// AES256 server-side encryption.
package s3
