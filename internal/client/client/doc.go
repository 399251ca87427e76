// Package client talks to the MindBalance backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     identity (Register/GetSalt/Login/Refresh/Profile), mood entries
//     (create, partial update, delete, list, count, watch) and photo upload.
//  2. A concrete gRPC implementation (see GRPCClient) that injects the access
//     token via interceptors, transparently refreshes an expired token once,
//     and maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable for anything that looks like
// missing connectivity, ErrUnauthorized, common.ErrorNotFound,
// common.ErrorIncorrectMetadata, and ErrRemote for everything else.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. Token state is guarded and a
// refresh is shared by all callers that hit the same expired token.
package client
