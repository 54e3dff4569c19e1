// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"encoding/json"
)

const policyVersion = "2012-10-17"

// policyDocument is the subset of the S3 bucket policy grammar we emit.
type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string          `json:"Sid,omitempty"`
	Effect    string          `json:"Effect"`
	Principal policyPrincipal `json:"Principal"`
	Action    []string        `json:"Action"`
	Resource  []string        `json:"Resource"`
}

type policyPrincipal struct {
	AWS []string `json:"AWS"`
}

// PublicReadPolicy returns the bucket policy granting anonymous read-only
// access: listing and locating the bucket, and getting its objects.
func PublicReadPolicy(bucket string) (string, error) {
	arn := "arn:aws:s3:::" + bucket
	doc := policyDocument{
		Version: policyVersion,
		Statement: []policyStatement{
			{
				Sid:       "PublicReadBucket",
				Effect:    "Allow",
				Principal: policyPrincipal{AWS: []string{"*"}},
				Action:    []string{"s3:GetBucketLocation", "s3:ListBucket"},
				Resource:  []string{arn},
			},
			{
				Sid:       "PublicReadObjects",
				Effect:    "Allow",
				Principal: policyPrincipal{AWS: []string{"*"}},
				Action:    []string{"s3:GetObject"},
				Resource:  []string{arn + "/*"},
			},
		},
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
