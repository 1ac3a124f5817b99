// Package config persists the user's device registry for the mlavr tools.
//
// The registry is a YAML file in the OS-appropriate configuration directory
// (for example ~/.config/mlavr/config.yaml on Linux) mapping short device
// names to their host, control port and display nickname, plus application
// preferences such as the default device and the polling interval. Saves
// are atomic (write to a temporary file, then rename) so a crash cannot
// leave a corrupt file behind.
//
// The registry stores connection coordinates only; the protocol has no
// authentication and no credentials exist to store.
package config
