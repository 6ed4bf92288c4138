// SPDX-License-Identifier: MIT

// Package reference provides deterministic predictors for driving the
// sampler without a trained network.
//
// Helix always predicts an ideal α-helix Cα trace with Gram–Schmidt frames
// and a fixed target sequence whose confidence grows with t. Echo returns the
// current noisy state as its own estimate, which makes the trajectory depend
// only on noise and guidance.
package reference
