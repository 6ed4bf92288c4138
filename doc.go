// SPDX-License-Identifier: MIT

// Package foldflow is a multi-modal reverse-diffusion sampler for protein
// structures: per-residue backbone frames on SO(3), Cα translations in R³ and
// residue types drawn from a masked discrete alphabet, all integrated jointly
// from noise (t = min_t) to data (t = 1) under a learned denoiser.
//
// 🚀 What is in the box?
//
//	• Noise schedules: linear, exponential and polynomial-warmup α(t)
//	• Channels: geodesic SO(3) flow, Euclidean flow with optional SDE noise,
//	  and masked token unmasking with purity ranking
//	• Guidance: radius-of-gyration potential with time-dependent scaling
//	• Self-conditioning: the previous prediction is fed back to the model
//	• Ensembles: deterministic per-sample seeds, bounded worker pools
//	• Persistence: SQLite run and trajectory store, DTW trajectory comparison
//	• Observability: zap logging and Prometheus metrics
//
// ✨ Layout
//
//	schedule/    — α(t) families and their derivatives
//	so3/         — Exp/Log maps, geodesics, Haar sampling, polar projection
//	geometry/    — Vec3, Rg, gyration tensor, dRMSD, Kabsch RMSD
//	matrix/      — small dense linear algebra (Jacobi eigen, covariance)
//	potential/   — guidance potentials and their forces
//	interpolant/ — rotation, translation and discrete channel updates
//	sampler/     — configuration, run loop, ensembles, summaries
//	reference/   — analytic predictors for demos and tests
//	metrics/     — Recorder interface and Prometheus implementation
//	trajstore/   — SQLite persistence of runs
//	dtw/         — trajectory alignment by Dynamic Time Warping
//	cmd/foldflow — command-line front end
//
// Quick start:
//
//	cfg := sampler.DefaultConfig()
//	s, _ := sampler.New(cfg)
//	h, _ := reference.NewHelix(64, cfg.NumTokens, nil)
//	res, _ := s.Run(ctx, h.Template(), h, 42)
//	fmt.Println(sampler.Summarize(res, cfg.NumTokens).Sequence)
package foldflow
