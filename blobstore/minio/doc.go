// Package minio stores graph snapshots in MinIO or any other S3-compatible
// server through the MinIO client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := minioblob.NewStore(client, "graphs", "ukb/")
//
// The package has no AWS SDK dependency, which keeps air-gapped deployments
// small.
package minio
