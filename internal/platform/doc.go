// Package platform names the social networks creatorpay understands and
// normalizes the free-form platform strings found in analytics exports.
package platform
