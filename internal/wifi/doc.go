// Package wifi performs one-shot wireless access point scans using the
// platform's own tooling.
//
// # Backends
//
//   - Linux: nmcli when NetworkManager is present, otherwise "iw dev <iface> scan"
//   - macOS: the airport utility in XML (plist) mode
//   - Windows: "netsh wlan show networks mode=bssid"
//
// Every backend reports the broadcasting BSSID, network name, channel,
// signal level in dBm and a coarse security label. Scans shell out to
// external commands and usually need the radio to be idle; callers treat
// any error as "no access points seen".
package wifi
